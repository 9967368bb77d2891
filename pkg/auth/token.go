package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential is returned when a supplied credential cannot be decoded
var ErrInvalidCredential = errors.New("invalid credential")

// tokenClaims adapts Claims to the jwt.Claims interface
type tokenClaims struct {
	jwt.RegisteredClaims
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Verified      *bool       `json:"verified,omitempty"`
	EmailVerified *bool       `json:"email_verified,omitempty"`
	RealmAccess   realmAccess `json:"realm_access"`
}

// ParseBearer extracts the token from an Authorization header value.
// An empty header is not an error: ok is false and the caller stays anonymous.
func ParseBearer(header string) (token string, ok bool, err error) {
	if header == "" {
		return "", false, nil
	}

	// Format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false, fmt.Errorf("%w: invalid authorization header format", ErrInvalidCredential)
	}

	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", false, fmt.Errorf("%w: empty bearer token", ErrInvalidCredential)
	}
	return token, true, nil
}

// Decoder turns bearer tokens into identities without verifying signatures.
// Tokens are issued and verified upstream; this service only reads claims.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder creates a new token decoder
func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode decodes the token payload into an Identity
func (d *Decoder) Decode(token string) (*Identity, error) {
	claims := &tokenClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	c := Claims{
		Subject:       claims.Subject,
		Name:          claims.Name,
		Email:         claims.Email,
		Verified:      claims.Verified,
		EmailVerified: claims.EmailVerified,
		RealmAccess:   claims.RealmAccess,
	}
	return c.Identity(), nil
}

// DecodeIdentity decodes a token with a default Decoder
func DecodeIdentity(token string) (*Identity, error) {
	return NewDecoder().Decode(token)
}

// IdentityFromHeader combines ParseBearer and Decode.
// It returns (nil, nil) for anonymous requests.
func (d *Decoder) IdentityFromHeader(header string) (*Identity, error) {
	token, ok, err := ParseBearer(header)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return d.Decode(token)
}
