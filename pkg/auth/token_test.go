package auth

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-checked"))
	require.NoError(t, err)
	return token
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
		wantErr   bool
	}{
		{name: "empty header is anonymous", header: ""},
		{name: "bearer token", header: "Bearer abc.def.ghi", wantToken: "abc.def.ghi", wantOK: true},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", wantToken: "abc.def.ghi", wantOK: true},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "blank token", header: "Bearer   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok, err := ParseBearer(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCredential))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestDecoder_Decode(t *testing.T) {
	decoder := NewDecoder()

	t.Run("decodes identity claims", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub":      "user-1",
			"name":     "Ada Owner",
			"email":    "ada@example.com",
			"verified": true,
			"realm_access": map[string]interface{}{
				"roles": []string{"offline_access", "restaurant"},
			},
		})

		identity, err := decoder.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.Subject)
		assert.Equal(t, "Ada Owner", identity.Name)
		assert.Equal(t, "ada@example.com", identity.Email)
		assert.True(t, identity.Verified)
		assert.Equal(t, []string{"offline_access", "restaurant"}, identity.Roles)
		assert.True(t, identity.HasRole(RoleRestaurant))
	})

	t.Run("role set equals realm_access.roles exactly", func(t *testing.T) {
		for _, roles := range [][]string{{}, {"a"}, {"Restaurant", "restaurant", "x"}} {
			token := signToken(t, jwt.MapClaims{
				"sub":          "user-2",
				"realm_access": map[string]interface{}{"roles": roles},
			})
			identity, err := decoder.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, roles, identity.Roles)
		}
	})

	t.Run("missing realm_access yields no roles", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"sub": "user-3"})
		identity, err := decoder.Decode(token)
		require.NoError(t, err)
		assert.Empty(t, identity.Roles)
		assert.False(t, identity.HasRole(RoleRestaurant))
	})

	t.Run("email_verified fallback", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"sub": "user-4", "email_verified": true})
		identity, err := decoder.Decode(token)
		require.NoError(t, err)
		assert.True(t, identity.Verified)
	})

	t.Run("signature is not verified", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"sub": "user-5"})
		tampered := token[:len(token)-4] + "AAAA"
		identity, err := decoder.Decode(tampered)
		require.NoError(t, err)
		assert.Equal(t, "user-5", identity.Subject)
	})

	t.Run("malformed tokens", func(t *testing.T) {
		garbagePayload := "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("{not json")) + ".sig"
		for _, token := range []string{"not-a-jwt", "a.b", "!!!.???.###", garbagePayload} {
			_, err := decoder.Decode(token)
			require.Error(t, err, token)
			assert.True(t, errors.Is(err, ErrInvalidCredential))
		}
	})
}

func TestDecoder_IdentityFromHeader(t *testing.T) {
	decoder := NewDecoder()

	identity, err := decoder.IdentityFromHeader("")
	require.NoError(t, err)
	assert.Nil(t, identity)

	_, err = decoder.IdentityFromHeader("Bearer nonsense")
	assert.True(t, errors.Is(err, ErrInvalidCredential))

	token := signToken(t, jwt.MapClaims{"sub": "user-6"})
	identity, err = decoder.IdentityFromHeader("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-6", identity.Subject)

	identity, err = DecodeIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "user-6", identity.Subject)
}
