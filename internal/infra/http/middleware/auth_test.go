package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lynkupro-api/internal/entity"
)

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", u.ID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	token, err := auth.IssueToken(entity.User{ID: "u1", Email: "sam@lynkupro.com", Role: entity.RoleUser}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Authenticate(okHandler(t)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "u1", w.Header().Get("X-User"))
}

func TestAuthenticateRejects(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	other, err := NewAuthenticator("other-secret").IssueToken(entity.User{ID: "u1"}, time.Hour)
	require.NoError(t, err)
	expired, err := auth.IssueToken(entity.User{ID: "u1"}, -time.Minute)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"empty bearer": "Bearer ",
		"wrong key":    "Bearer " + other,
		"expired":      "Bearer " + expired,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/leads", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			auth.Authenticate(okHandler(t)).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gate := RequireRole(entity.RoleAdmin, entity.RoleManager)

	for role, want := range map[string]int{
		entity.RoleAdmin:   http.StatusNoContent,
		entity.RoleManager: http.StatusNoContent,
		entity.RoleUser:    http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodDelete, "/leads/1", nil)
		req = req.WithContext(WithUser(req.Context(), entity.User{ID: "u1", Role: role}))
		w := httptest.NewRecorder()

		gate(okHandler(t)).ServeHTTP(w, req)

		assert.Equal(t, want, w.Code, role)
	}
}

func TestRequireRoleWithoutUser(t *testing.T) {
	w := httptest.NewRecorder()
	RequireRole(entity.RoleAdmin)(okHandler(t)).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/leads/1", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
