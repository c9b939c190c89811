package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"buschat/internal/domain/models"
	"buschat/internal/upstream"
)

func testRegistry(t *testing.T, st *Store) (*Registry, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	reg := NewRegistry(st, NewMemoryCache(), func(onExpired func()) (*upstream.Client, error) {
		return upstream.New(upstream.Config{BaseURL: srv.URL, OnSessionExpired: onExpired})
	})
	return reg, srv
}

func TestCreateBuildsAnonymousSession(t *testing.T) {
	reg, _ := testRegistry(t, nil)
	sess, err := reg.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.Key == "" {
		t.Fatalf("session key missing")
	}
	if sess.Client == nil || sess.Chat == nil {
		t.Fatalf("session wiring incomplete: %+v", sess)
	}
	if sess.User() != nil {
		t.Fatalf("anonymous session must have no user")
	}

	got, err := reg.Get(context.Background(), sess.Key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != sess {
		t.Fatalf("registry returned a different instance for a live key")
	}
}

func TestGetHydratesDormantSessionFromMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"session_key", "user_json", "validated", "credentials"}).
		AddRow("dormant", `{"id":7,"name":"Asha","mobile":"9999999999"}`, true,
			`[{"name":"refresh_token","value":"r-1"}]`)
	mock.ExpectQuery("SELECT session_key, user_json, validated, credentials").
		WithArgs("dormant").
		WillReturnRows(rows)

	reg, _ := testRegistry(t, New(db))
	sess, err := reg.Get(context.Background(), "dormant")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	user := sess.User()
	if user == nil || user.ID != 7 {
		t.Fatalf("hydrated user = %+v", user)
	}
	if !sess.Validated() {
		t.Fatalf("validated flag not hydrated")
	}
	if !sess.NeedsRevalidation() {
		t.Fatalf("hydrated identity must still require a live profile round-trip")
	}
	if sess.Client.ExportCookies() == "" {
		t.Fatalf("credential cookies not restored")
	}
}

func TestGetUnknownKeyIsAnonymous(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT session_key, user_json, validated, credentials").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"session_key", "user_json", "validated", "credentials"}))

	reg, _ := testRegistry(t, New(db))
	sess, err := reg.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.User() != nil {
		t.Fatalf("unknown key must come back anonymous")
	}
}

func TestClearDropsAuthButKeepsSession(t *testing.T) {
	reg, _ := testRegistry(t, nil)
	sess, err := reg.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sess.SetUser(models.User{ID: 7, Name: "Asha"})

	reg.Clear(context.Background(), sess.Key)

	if sess.User() != nil || sess.Validated() {
		t.Fatalf("auth state survived clear")
	}
	got, err := reg.Get(context.Background(), sess.Key)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if got != sess {
		t.Fatalf("session instance must survive an auth clear")
	}
}

func TestDiscountAndPassengerSideChannels(t *testing.T) {
	reg, _ := testRegistry(t, nil)
	sess, err := reg.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if d := sess.Discounts(); d.Coins != 0 || d.Card != nil {
		t.Fatalf("fresh session discounts = %+v", d)
	}

	sess.SetDiscounts(&models.DiscountInstruments{Coins: 150})
	sess.SetDiscounts(nil) // nil must not erase the captured value
	if d := sess.Discounts(); d.Coins != 150 {
		t.Fatalf("discounts = %+v", d)
	}

	sess.SetPassengers([]models.Passenger{{Name: "Asha", Age: 30, Gender: "female"}})
	sess.SetPassengers(nil)
	ps := sess.Passengers()
	if len(ps) != 1 || ps[0].Name != "Asha" {
		t.Fatalf("passengers = %+v", ps)
	}
}
