package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/platinummonkey/restaurant-service/pkg/auth"
	"github.com/platinummonkey/restaurant-service/pkg/contextkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-checked"))
	require.NoError(t, err)
	return token
}

func TestIdentityMiddleware_Handler(t *testing.T) {
	m := NewIdentityMiddleware(nil)

	serve := func(header string) (*httptest.ResponseRecorder, *auth.Identity, string, bool) {
		var (
			identity *auth.Identity
			userID   string
			called   bool
		)
		h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			identity = GetIdentity(r)
			userID = contextkeys.GetUserID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w, identity, userID, called
	}

	t.Run("no credential continues anonymously", func(t *testing.T) {
		w, identity, userID, called := serve("")
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, identity)
		assert.Empty(t, userID)
	})

	t.Run("well formed credential attaches identity", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub":          "user-1",
			"name":         "Jo Chef",
			"email":        "jo@example.com",
			"verified":     true,
			"realm_access": map[string]interface{}{"roles": []string{"restaurant", "offline_access"}},
		})

		w, identity, userID, called := serve("Bearer " + token)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, identity)
		assert.Equal(t, "user-1", identity.Subject)
		assert.Equal(t, []string{"restaurant", "offline_access"}, identity.Roles)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("malformed credential is rejected", func(t *testing.T) {
		w, _, _, called := serve("Bearer not.a.jwt")
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, InvalidTokenMessage, decodeError(t, w).Message)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("non bearer scheme is rejected", func(t *testing.T) {
		w, _, _, called := serve("Basic dXNlcjpwYXNz")
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
