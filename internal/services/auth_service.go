package services

import (
	"context"
	"regexp"
	"strings"

	"buschat/internal/domain"
	"buschat/internal/domain/models"
	"buschat/internal/store"
	"buschat/internal/utils"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10,13}$`)

// AuthService runs the OTP login flow against the upstream service and owns
// the cached-identity lifecycle.
type AuthService struct {
	Registry  *store.Registry
	RequestID string
}

func (s AuthService) SendOTP(ctx context.Context, sess *store.SessionState, mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return domain.ValidationError{Field: "mobile", Msg: "enter a valid mobile number"}
	}
	utils.LogEvent(s.RequestID, "auth", "send_otp", "mobile="+utils.MaskMobile(mobile))
	return sess.Client.SendOTP(ctx, mobile)
}

func (s AuthService) ResendOTP(ctx context.Context, sess *store.SessionState, mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return domain.ValidationError{Field: "mobile", Msg: "enter a valid mobile number"}
	}
	return sess.Client.ResendOTP(ctx, mobile)
}

// VerifyOTP completes login, caches the identity, and persists it with the
// fresh credential cookies.
func (s AuthService) VerifyOTP(ctx context.Context, sess *store.SessionState, mobile, otp string) (*models.User, error) {
	mobile = strings.TrimSpace(mobile)
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return nil, domain.ValidationError{Field: "otp", Msg: "OTP is required"}
	}

	user, err := sess.Client.VerifyOTP(ctx, mobile, otp)
	if err != nil {
		return nil, err
	}

	sess.SetUser(*user)
	if err := s.Registry.Persist(ctx, sess); err != nil {
		utils.LogEvent(s.RequestID, "auth", "persist", "saving identity failed: "+err.Error())
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user logged in")
	return user, nil
}

// Logout invalidates upstream and local state. Upstream failure does not
// keep the local session alive.
func (s AuthService) Logout(ctx context.Context, sess *store.SessionState) {
	if err := sess.Client.Logout(ctx); err != nil {
		utils.LogEvent(s.RequestID, "auth", "logout", "upstream logout failed: "+err.Error())
	}
	s.Registry.Clear(ctx, sess.Key)
}

// EnsureAuthenticated is the gate in front of every credentialed action.
// Cached state alone is never enough: the first call per process load for a
// session re-confirms it with a live profile round-trip.
func (s AuthService) EnsureAuthenticated(ctx context.Context, sess *store.SessionState) (*models.User, error) {
	if sess.User() == nil || !sess.Validated() {
		return nil, domain.SessionExpiredError{}
	}

	if sess.NeedsRevalidation() {
		user, err := sess.Client.Profile(ctx)
		if err != nil {
			if domain.IsSessionExpired(err) {
				return nil, err
			}
			return nil, domain.UpstreamError{Op: "revalidate", Err: err}
		}
		sess.SetUser(*user)
		if err := s.Registry.Persist(ctx, sess); err != nil {
			utils.LogEvent(s.RequestID, "auth", "persist", "saving identity failed: "+err.Error())
		}
	}

	return sess.User(), nil
}
