package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/micropay-labs/api-gateway/internal/payment"
	"github.com/micropay-labs/api-gateway/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type facilitatorStub struct {
	verifyCalls int32
	settleCalls int32
	valid       bool
	settleOK    bool
}

func (f *facilitatorStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/verify":
			atomic.AddInt32(&f.verifyCalls, 1)
			json.NewEncoder(w).Encode(payment.VerifyResult{IsValid: f.valid, InvalidReason: "bad proof"})
		case "/settle":
			atomic.AddInt32(&f.settleCalls, 1)
			json.NewEncoder(w).Encode(payment.SettleResult{Success: f.settleOK, Transaction: "0x1"})
		}
	}
}

type gateFixture struct {
	router       *gin.Engine
	facilitator  *facilitatorStub
	handlerCalls *int32
}

func newGateFixture(t *testing.T, stub *facilitatorStub) *gateFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := httptest.NewServer(stub.handler())
	t.Cleanup(ts.Close)

	requirements := map[string]payment.Requirement{
		"/api/search": {
			Scheme:            "exact",
			Network:           "base",
			MaxAmountRequired: "1000",
			Resource:          "/api/search",
		},
	}

	log := &logger.Logger{Logger: zap.NewNop()}
	facilitator := payment.NewFacilitator(ts.URL, nil)

	var handlerCalls int32
	router := gin.New()
	router.Use(Gate(requirements, facilitator, log))
	router.GET("/api/search", func(c *gin.Context) {
		atomic.AddInt32(&handlerCalls, 1)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/api/free", func(c *gin.Context) {
		atomic.AddInt32(&handlerCalls, 1)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return &gateFixture{router: router, facilitator: stub, handlerCalls: &handlerCalls}
}

func validProof(t *testing.T) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte(`{"x402Version":1,"scheme":"exact"}`))
}

func request(router *gin.Engine, target, proof string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if proof != "" {
		req.Header.Set(PaymentHeader, proof)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestGate_NoProofNeverReachesHandler(t *testing.T) {
	stub := &facilitatorStub{valid: true, settleOK: true}
	fx := newGateFixture(t, stub)

	w := request(fx.router, "/api/search", "")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var reply payment.RequiredReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, payment.X402Version, reply.X402Version)
	require.Len(t, reply.Accepts, 1)
	assert.Equal(t, "/api/search", reply.Accepts[0].Resource)

	// No upstream cost for unpaid requests.
	assert.Zero(t, atomic.LoadInt32(fx.handlerCalls))
	assert.Zero(t, atomic.LoadInt32(&stub.verifyCalls))
	assert.Zero(t, atomic.LoadInt32(&stub.settleCalls))
}

func TestGate_MalformedProofRejected(t *testing.T) {
	stub := &facilitatorStub{valid: true}
	fx := newGateFixture(t, stub)

	w := request(fx.router, "/api/search", "not-base64!!!")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Zero(t, atomic.LoadInt32(fx.handlerCalls))
	assert.Zero(t, atomic.LoadInt32(&stub.verifyCalls))
}

func TestGate_InvalidProofRejected(t *testing.T) {
	stub := &facilitatorStub{valid: false}
	fx := newGateFixture(t, stub)

	w := request(fx.router, "/api/search", validProof(t))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var reply payment.RequiredReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "bad proof", reply.Error)

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.verifyCalls))
	assert.Zero(t, atomic.LoadInt32(fx.handlerCalls))
	assert.Zero(t, atomic.LoadInt32(&stub.settleCalls))
}

func TestGate_ValidProofRunsHandlerOnceAndSettlesOnce(t *testing.T) {
	stub := &facilitatorStub{valid: true, settleOK: true}
	fx := newGateFixture(t, stub)

	w := request(fx.router, "/api/search", validProof(t))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int32(1), atomic.LoadInt32(fx.handlerCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.verifyCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.settleCalls))
}

func TestGate_SettlementFailureKeepsResponse(t *testing.T) {
	stub := &facilitatorStub{valid: true, settleOK: false}
	fx := newGateFixture(t, stub)

	// Settlement failure is logged for reconciliation but the client
	// still gets the successful response.
	w := request(fx.router, "/api/search", validProof(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.settleCalls))
}

func TestGate_UngatedRoutePassesThrough(t *testing.T) {
	stub := &facilitatorStub{}
	fx := newGateFixture(t, stub)

	w := request(fx.router, "/api/free", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(fx.handlerCalls))
	assert.Zero(t, atomic.LoadInt32(&stub.verifyCalls))
}

func TestGate_NoSettlementAfterHandlerFailure(t *testing.T) {
	stub := &facilitatorStub{valid: true, settleOK: true}
	gin.SetMode(gin.TestMode)

	ts := httptest.NewServer(stub.handler())
	t.Cleanup(ts.Close)

	requirements := map[string]payment.Requirement{
		"/api/broken": {Resource: "/api/broken"},
	}
	log := &logger.Logger{Logger: zap.NewNop()}

	router := gin.New()
	router.Use(Gate(requirements, payment.NewFacilitator(ts.URL, nil), log))
	router.GET("/api/broken", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	w := request(router, "/api/broken", validProof(t))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, atomic.LoadInt32(&stub.settleCalls), "failed responses are not settled")
}
