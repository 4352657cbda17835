package middleware

import (
	"context"
	"net/http"
	"strings"

	h "eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

type contextKey string

const (
	accountIDKey contextKey = "accountID"
	roleKey      contextKey = "role"
)

// SetIdentity returns a context carrying the authenticated account ID and
// role. Used by the auth middleware and by tests.
func SetIdentity(ctx context.Context, accountID string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, accountID)
	return context.WithValue(ctx, roleKey, role)
}

// AccountIDFromContext returns the authenticated account ID, if present.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok
}

// RoleFromContext returns the authenticated account's role, if present.
func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets
// the account identity in the request context. If the token is missing or
// invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			accountID, role, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetIdentity(r.Context(), accountID, role))
			next(w, r)
		}
	}
}

// RequireRole returns a wrapper that rejects requests whose authenticated
// role does not match. It must run after RequireAuth.
func RequireRole(role domain.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			got, ok := RoleFromContext(r.Context())
			if !ok || got != role {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "insufficient role")
				return
			}
			next(w, r)
		}
	}
}
