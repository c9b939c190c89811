package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"buschat/internal/http/middleware"
	"buschat/internal/ratelimit"
	"buschat/internal/store"
)

// API bundles the dependencies every handler needs. One instance is built
// at startup and shared; per-request state stays on the gin context.
type API struct {
	Registry *store.Registry
	Store    *store.Store
	Limiter  *ratelimit.SessionLimiter

	// Payment polling budget, zero values fall back to service defaults.
	PaymentAttempts int
	PaymentDelay    time.Duration
}

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}
