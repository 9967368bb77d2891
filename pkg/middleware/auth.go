package middleware

import (
	"net/http"

	"github.com/platinummonkey/restaurant-service/pkg/auth"
	"github.com/platinummonkey/restaurant-service/pkg/contextkeys"
	"github.com/platinummonkey/restaurant-service/pkg/httputil"
)

// InvalidTokenMessage is the error message for a credential that cannot be decoded
const InvalidTokenMessage = "Invalid JWT token provided"

// IdentityMiddleware attaches the caller identity decoded from the Authorization header
type IdentityMiddleware struct {
	decoder *auth.Decoder
}

// NewIdentityMiddleware creates a new identity middleware
func NewIdentityMiddleware(decoder *auth.Decoder) *IdentityMiddleware {
	if decoder == nil {
		decoder = auth.NewDecoder()
	}
	return &IdentityMiddleware{decoder: decoder}
}

// Handler wraps an HTTP handler with identity extraction.
// Requests without a credential continue anonymously.
func (m *IdentityMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.decoder.IdentityFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			httputil.WriteDetailedError(w, http.StatusUnauthorized, InvalidTokenMessage, err.Error())
			return
		}
		if identity == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), identity)
		ctx = contextkeys.WithUserID(ctx, identity.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the caller identity from the request, nil when anonymous
func GetIdentity(r *http.Request) *auth.Identity {
	identity, ok := r.Context().Value(contextkeys.IdentityKey).(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
