package middleware

import (
	"context"
	"net/http"

	"plates-console/internal/models"
	"plates-console/internal/session"

	"github.com/rs/zerolog/log"
)

type contextKey string

const userKey contextKey = "user"

// LoginPath is where unauthenticated or wrong-role requests are sent
const LoginPath = "/login"

// RequireAuth lets a request through only when the session holds a token
// and a user
func RequireAuth(sess *session.Session) func(http.Handler) http.Handler {
	return RequireRole(sess)
}

// RequireRole lets a request through only when the session user has one of
// roles. No roles means any authenticated user.
func RequireRole(sess *session.Session, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sess.IsAuthenticated() {
				redirectToLogin(w, r, "anonymous")
				return
			}
			if len(roles) > 0 && !sess.HasRole(roles...) {
				redirectToLogin(w, r, "wrong role")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, sess.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, reason string) {
	log.Debug().
		Str("path", r.URL.Path).
		Str("reason", reason).
		Msg("Redirecting to login")
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// GetUser extracts the session user from context
func GetUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
