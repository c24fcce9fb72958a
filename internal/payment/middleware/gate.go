package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/micropay-labs/api-gateway/internal/payment"
	"github.com/micropay-labs/api-gateway/internal/pkg/logger"
	"go.uber.org/zap"
)

// PaymentHeader carries the client's base64-encoded payment proof.
const PaymentHeader = "X-PAYMENT"

// Gate enforces pay-per-call on the routes present in requirements.
// Routes without an entry pass through untouched. An unpaid request is
// rejected before any upstream work happens; settlement runs after the
// handler has written a successful response and its failure never
// unwinds that response.
func Gate(requirements map[string]payment.Requirement, facilitator *payment.Facilitator, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requirement, gated := requirements[c.FullPath()]
		if !gated {
			c.Next()
			return
		}

		header := c.GetHeader(PaymentHeader)
		if header == "" {
			reject(c, requirement, "X-PAYMENT header is required")
			return
		}

		payload, err := base64.StdEncoding.DecodeString(header)
		if err != nil || !json.Valid(payload) {
			reject(c, requirement, "malformed payment payload")
			return
		}

		verification, err := facilitator.Verify(c.Request.Context(), payload, requirement)
		if err != nil {
			// Fail closed: an unverifiable proof must not reach upstream.
			log.Error("payment verification unavailable",
				zap.String("resource", requirement.Resource),
				zap.Error(err))
			reject(c, requirement, "payment verification unavailable")
			return
		}
		if !verification.IsValid {
			reason := verification.InvalidReason
			if reason == "" {
				reason = "invalid payment"
			}
			reject(c, requirement, reason)
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		settlement, err := facilitator.Settle(c.Request.Context(), payload, requirement)
		switch {
		case err != nil:
			log.Error("settlement failed",
				zap.String("resource", requirement.Resource),
				zap.String("payer", verification.Payer),
				zap.Error(err))
		case !settlement.Success:
			log.Error("settlement rejected",
				zap.String("resource", requirement.Resource),
				zap.String("payer", settlement.Payer),
				zap.String("reason", settlement.ErrorReason))
		default:
			log.Info("payment settled",
				zap.String("resource", requirement.Resource),
				zap.String("network", settlement.Network),
				zap.String("transaction", settlement.Transaction))
		}
	}
}

func reject(c *gin.Context, requirement payment.Requirement, reason string) {
	c.AbortWithStatusJSON(http.StatusPaymentRequired, payment.RequiredReply{
		X402Version: payment.X402Version,
		Error:       reason,
		Accepts:     []payment.Requirement{requirement},
	})
}
