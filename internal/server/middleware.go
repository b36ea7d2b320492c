package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"stall-allocation/utils"

	"github.com/gin-gonic/gin"
)

// OperatorKeyHeader carries the shared secret for privileged endpoints
const OperatorKeyHeader = "X-Operator-Key"

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.FullPath(),
		"uri":     c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// OperatorOnly guards session publication, extension and cancellation. An
// empty key disables the privileged endpoints entirely.
func OperatorOnly(operatorKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if operatorKey == "" {
			utils.JSONError(c, http.StatusForbidden, errors.New("operator endpoints disabled"), "forbidden")
			c.Abort()
			return
		}

		got := c.GetHeader(OperatorKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(operatorKey)) != 1 {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("missing or invalid operator key"), "unauthorized")
			utils.Warn("OperatorOnly: rejected request", map[string]any{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
