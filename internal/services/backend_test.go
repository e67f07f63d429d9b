package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
	"plates-console/internal/session"

	"github.com/go-chi/chi/v5"
)

// newBackend starts a fake backend with the routes registered by setup and
// returns a client logged in as role
func newBackend(t *testing.T, role models.Role, setup func(r chi.Router)) (*apiclient.Client, *session.Session) {
	t.Helper()
	return newBackendWith(t, role, setup)
}

// newBackendWith is newBackend with client options
func newBackendWith(t *testing.T, role models.Role, setup func(r chi.Router), opts ...apiclient.Option) (*apiclient.Client, *session.Session) {
	t.Helper()

	r := chi.NewRouter()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	sess, err := session.New(session.NewMemoryStore())
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	if err := sess.SetTokens(models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if err := sess.SetUser(&models.User{ID: 1, Email: "user@example.com", Role: role, IsActive: true}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	return apiclient.New(srv.URL, 5*time.Second, sess, opts...), sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func fixedNow(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Errorf("failed to decode request body: %v", err)
	}
}
