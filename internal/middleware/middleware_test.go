package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"plates-console/internal/models"
	"plates-console/internal/session"
)

func newSession(t *testing.T, user *models.User) *session.Session {
	t.Helper()
	sess, err := session.New(session.NewMemoryStore())
	if err != nil {
		t.Fatal(err)
	}
	if user != nil {
		if err := sess.SetTokens(models.TokenPair{AccessToken: "a", RefreshToken: "r"}); err != nil {
			t.Fatal(err)
		}
		if err := sess.SetUser(user); err != nil {
			t.Fatal(err)
		}
	}
	return sess
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		roles      []models.Role
		wantStatus int
	}{
		{"anonymous", nil, []models.Role{models.RoleDonor}, http.StatusSeeOther},
		{"wrong role", &models.User{ID: 1, Role: models.RoleNGO}, []models.Role{models.RoleDonor}, http.StatusSeeOther},
		{"matching role", &models.User{ID: 1, Role: models.RoleDonor}, []models.Role{models.RoleDonor}, http.StatusOK},
		{"one of several", &models.User{ID: 1, Role: models.RoleAdmin}, []models.Role{models.RoleNGO, models.RoleAdmin}, http.StatusOK},
		{"any role", &models.User{ID: 1, Role: models.RoleNGO}, nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession(t, tt.user)
			var seen *models.User
			h := RequireRole(sess, tt.roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetUser(r.Context())
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/donor/dashboard", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusSeeOther {
				if loc := rec.Header().Get("Location"); loc != LoginPath {
					t.Errorf("Location = %q, want %q", loc, LoginPath)
				}
				return
			}
			if seen == nil || seen.Role != tt.user.Role {
				t.Errorf("context user = %+v", seen)
			}
		})
	}
}

func TestRequireAuthWithoutUser(t *testing.T) {
	sess := newSession(t, nil)
	if err := sess.SetTokens(models.TokenPair{AccessToken: "a"}); err != nil {
		t.Fatal(err)
	}
	h := RequireAuth(sess)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a cached user")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
}

func TestGetUserMissing(t *testing.T) {
	if GetUser(httptest.NewRequest(http.MethodGet, "/", nil).Context()) != nil {
		t.Error("GetUser should be nil outside RequireRole")
	}
}

func TestInFlightRejectsDuplicates(t *testing.T) {
	guard := NewInFlight()
	entered := make(chan struct{})
	release := make(chan struct{})
	h := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			close(entered)
			<-release
		}
		w.WriteHeader(http.StatusCreated)
	}))

	var wg sync.WaitGroup
	first := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/donor/donations", nil))
	}()
	<-entered

	dup := httptest.NewRecorder()
	h.ServeHTTP(dup, httptest.NewRequest(http.MethodPost, "/donor/donations", nil))
	if dup.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", dup.Code)
	}

	other := httptest.NewRecorder()
	h.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/donor/donations", nil))
	if other.Code != http.StatusCreated {
		t.Errorf("GET status = %d, want pass-through", other.Code)
	}

	close(release)
	wg.Wait()
	if first.Code != http.StatusCreated {
		t.Errorf("first status = %d", first.Code)
	}

	again := httptest.NewRecorder()
	h2 := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	h2.ServeHTTP(again, httptest.NewRequest(http.MethodPost, "/donor/donations", nil))
	if again.Code != http.StatusOK {
		t.Errorf("after completion status = %d, want 200", again.Code)
	}
}
