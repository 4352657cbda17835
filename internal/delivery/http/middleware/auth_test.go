package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventconsole/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts one fixed token and rejects everything else.
type fakeVerifier struct {
	token     string
	accountID string
	role      domain.Role
}

func (f fakeVerifier) Verify(token string) (string, domain.Role, error) {
	if token != f.token {
		return "", "", errors.New("bad token")
	}
	return f.accountID, f.role, nil
}

func TestRequireAuth(t *testing.T) {
	verifier := fakeVerifier{token: "good-token", accountID: "acc-1", role: domain.RoleOrganizer}

	var gotAccountID string
	var gotRole domain.Role
	handler := RequireAuth(verifier)(func(w http.ResponseWriter, r *http.Request) {
		gotAccountID, _ = AccountIDFromContext(r.Context())
		gotRole, _ = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer good-token", wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad-token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}

	require.Equal(t, "acc-1", gotAccountID)
	require.Equal(t, domain.RoleOrganizer, gotRole)
}

func TestRequireRole(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	handler := RequireRole(domain.RoleAdmin)(next)

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req = req.WithContext(SetIdentity(req.Context(), "acc-1", domain.RoleAdmin))
		rr := httptest.NewRecorder()
		handler(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req = req.WithContext(SetIdentity(req.Context(), "acc-2", domain.RoleOrganizer))
		rr := httptest.NewRecorder()
		handler(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("no identity is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
