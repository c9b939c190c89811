package upstream

import (
	"context"
	"net/http"

	"buschat/internal/domain"
	"buschat/internal/domain/models"
)

type otpRequest struct {
	Mobile string `json:"mobile"`
}

type verifyOTPRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

type authResponse struct {
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// SendOTP starts a login for the given mobile number.
func (c *Client) SendOTP(ctx context.Context, mobile string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/sendotp", nil, otpRequest{Mobile: mobile}, nil)
}

// ResendOTP re-triggers the pending OTP.
func (c *Client) ResendOTP(ctx context.Context, mobile string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/resendotp", nil, otpRequest{Mobile: mobile}, nil)
}

// VerifyOTP completes login. On success the upstream sets credential cookies
// on this client's jar and returns the user identity to cache.
func (c *Client) VerifyOTP(ctx context.Context, mobile, otp string) (*models.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/verifyotp", nil, verifyOTPRequest{Mobile: mobile, OTP: otp}, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, domain.UpstreamError{Op: "verifyotp", Message: "login response carried no user"}
	}
	return resp.User, nil
}

// Profile is the live round-trip that revalidates cached auth state. Local
// flags alone are never trusted; this runs once per app load per user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, domain.UpstreamError{Op: "profile", Message: "profile response carried no user"}
	}
	return resp.User, nil
}

// Logout invalidates the upstream session. Errors are returned but callers
// clear local state regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/auth/logout", nil, nil, nil)
}
