package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buschat/internal/http/middleware"
	"buschat/internal/services"
)

type otpRequest struct {
	Mobile string `json:"mobile"`
}

type verifyRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

func (a *API) authService(c *gin.Context) services.AuthService {
	return services.AuthService{
		Registry:  a.Registry,
		RequestID: middleware.GetRequestID(c),
	}
}

// POST /api/auth/sendotp
func (a *API) SendOTP(c *gin.Context) {
	var req otpRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sess := middleware.SessionState(c)
	if err := a.authService(c).SendOTP(c.Request.Context(), sess, req.Mobile); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// POST /api/auth/resendotp
func (a *API) ResendOTP(c *gin.Context) {
	var req otpRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sess := middleware.SessionState(c)
	if err := a.authService(c).ResendOTP(c.Request.Context(), sess, req.Mobile); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP resent"})
}

// POST /api/auth/verifyotp
func (a *API) VerifyOTP(c *gin.Context) {
	var req verifyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sess := middleware.SessionState(c)
	user, err := a.authService(c).VerifyOTP(c.Request.Context(), sess, req.Mobile, req.OTP)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GET /api/auth/profile
func (a *API) Profile(c *gin.Context) {
	sess := middleware.SessionState(c)
	user, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GET /api/auth/logout
func (a *API) Logout(c *gin.Context) {
	sess := middleware.SessionState(c)
	a.authService(c).Logout(c.Request.Context(), sess)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
