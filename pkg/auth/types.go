package auth

// Role represents a realm role granted by the identity provider
type Role string

const (
	// RoleRestaurant is required to create and manage restaurants
	RoleRestaurant Role = "restaurant"
)

// Identity holds the caller information decoded from a bearer token.
// It lives for a single request and is never persisted.
type Identity struct {
	Subject  string   `json:"sub"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Verified bool     `json:"verified"`
	Roles    []string `json:"roles"`
}

// HasRole checks if the identity carries the given role
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// realmAccess mirrors the nested realm_access claim
type realmAccess struct {
	Roles []string `json:"roles"`
}

// Claims is the subset of token claims the service reads
type Claims struct {
	Subject       string      `json:"sub"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Verified      *bool       `json:"verified,omitempty"`
	EmailVerified *bool       `json:"email_verified,omitempty"`
	RealmAccess   realmAccess `json:"realm_access"`
}

// Identity converts the claims into a request identity
func (c *Claims) Identity() *Identity {
	verified := false
	switch {
	case c.Verified != nil:
		verified = *c.Verified
	case c.EmailVerified != nil:
		verified = *c.EmailVerified
	}

	roles := c.RealmAccess.Roles
	if roles == nil {
		roles = []string{}
	}

	return &Identity{
		Subject:  c.Subject,
		Name:     c.Name,
		Email:    c.Email,
		Verified: verified,
		Roles:    roles,
	}
}
