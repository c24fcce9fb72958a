package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the public error contract: every failure reply carries a
// single "error" field with a human-readable message.
type ErrorBody struct {
	Error string `json:"error"`
}

// Success writes data as the reply body unchanged.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error writes {"error": message} with the given status.
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// BadRequest writes a 400 error reply.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InternalError writes a 500 error reply.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
