package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buschat/internal/domain"
	"buschat/internal/http/middleware"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Session expiry
// gets its own code so the client knows to reopen the login flow instead of
// showing a generic failure.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsSessionExpired(err):
		respondError(c, http.StatusUnauthorized, "login_required", "Your session has expired. Please log in again.")
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsUpstream(err):
		respondError(c, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
