package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"buschat/internal/domain"
)

func TestSendOTPRejectsBadMobile(t *testing.T) {
	svc := AuthService{}
	for _, mobile := range []string{"", "abc", "12345", "12345678901234", "99999 99999"} {
		if err := svc.SendOTP(context.Background(), nil, mobile); !domain.IsValidation(err) {
			t.Fatalf("mobile %q: expected validation error, got %v", mobile, err)
		}
	}
}

func TestVerifyOTPRequiresCode(t *testing.T) {
	svc := AuthService{}
	if _, err := svc.VerifyOTP(context.Background(), nil, "9999999999", "  "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginFlowCachesAndValidates(t *testing.T) {
	var profiles int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/sendotp":
			w.Write([]byte(`{"message": "sent"}`))
		case "/api/auth/verifyotp":
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "a-1", Path: "/"})
			w.Write([]byte(`{"user": {"id": 7, "name": "Asha", "mobile": "9999999999"}}`))
		case "/api/auth/profile":
			atomic.AddInt32(&profiles, 1)
			w.Write([]byte(`{"user": {"id": 7, "name": "Asha", "mobile": "9999999999"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	registry := newTestRegistry(t, srv)
	sess, err := registry.Create()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	svc := AuthService{Registry: registry}

	if _, err := svc.EnsureAuthenticated(context.Background(), sess); !domain.IsSessionExpired(err) {
		t.Fatalf("anonymous session must read as expired, got %v", err)
	}

	if err := svc.SendOTP(context.Background(), sess, "9999999999"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	user, err := svc.VerifyOTP(context.Background(), sess, "9999999999", "123456")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("user = %+v", user)
	}

	// Fresh login is already validated; no profile round-trip needed.
	if _, err := svc.EnsureAuthenticated(context.Background(), sess); err != nil {
		t.Fatalf("ensure after login: %v", err)
	}
	if got := atomic.LoadInt32(&profiles); got != 0 {
		t.Fatalf("profile called %d times after a fresh login, want 0", got)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/verifyotp":
			w.Write([]byte(`{"user": {"id": 7, "name": "Asha", "mobile": "9999999999"}}`))
		case "/api/auth/logout":
			w.Write([]byte(`{"message": "bye"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	registry := newTestRegistry(t, srv)
	sess, err := registry.Create()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	svc := AuthService{Registry: registry}
	if _, err := svc.VerifyOTP(context.Background(), sess, "9999999999", "123456"); err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	svc.Logout(context.Background(), sess)

	if _, err := svc.EnsureAuthenticated(context.Background(), sess); !domain.IsSessionExpired(err) {
		t.Fatalf("logged-out session must read as expired, got %v", err)
	}
}
