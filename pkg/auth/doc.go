// Package auth decodes caller identities from bearer tokens.
//
// # Overview
//
// Tokens are issued and verified by an external identity provider. This package
// only decodes the payload claims, it never checks signatures. The resulting
// Identity lives for one request.
//
// # Claims
//
//	sub                 -> Identity.Subject
//	name                -> Identity.Name
//	email               -> Identity.Email
//	verified            -> Identity.Verified (falls back to email_verified)
//	realm_access.roles  -> Identity.Roles
//
// # Usage
//
//	decoder := auth.NewDecoder()
//	identity, err := decoder.IdentityFromHeader(r.Header.Get("Authorization"))
//	if errors.Is(err, auth.ErrInvalidCredential) {
//		// 401
//	}
//	if identity == nil {
//		// anonymous request
//	}
//
// # Roles
//
// Roles are granted by the identity provider. RoleRestaurant gates restaurant
// management; nothing in this service assigns it.
//
// # Audit
//
// AuditLogger writes security audit records (denied requests, restaurant
// creation and deletion, co-owner grants) as structured log entries tagged
// audit=true.
package auth
