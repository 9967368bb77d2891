// Package middleware provides the authorization pipeline of the restaurant service.
//
// # Overview
//
// Every request first passes IdentityMiddleware, which decodes the bearer
// credential (if any) into an auth.Identity. Routes then declare a Chain of
// Gates. Chain creates a fresh Scope per request holding the identity, a copy
// of the route variables and every entity a gate resolved, so later gates
// and the handler never fetch the same row twice.
//
// # Middleware Components
//
// IdentityMiddleware: bearer credential decoding
//
//	router.Use(middleware.NewIdentityMiddleware(nil).Handler)
//	// Missing header: anonymous. Undecodable token: 401.
//
// Gates:
//
//	middleware.RequireAuthenticated()            // 401 without identity
//	middleware.RequireRole(auth.RoleRestaurant)  // 401, then 403 without the role
//	authz.RequireRestaurantExists("restaurantId") // 400 / 404
//	authz.RequireMenuExists("menuId")
//	authz.RequireItemExists("itemId")
//	authz.RequireOwnership()                     // role + restaurant + owner link, else 403
//
// Resolver steps walk the ownership chain upwards:
//
//	authz.PopulateFromItem() // itemId -> menuId -> restaurantId
//	authz.PopulateFromMenu() // menuId -> restaurantId
//
// # Usage Example
//
//	authz := middleware.NewAuthorizer(store).
//		WithDenialRecorder(metrics).
//		WithAuditLogger(auth.NewAuditLogger(logger))
//	router.Handle("/restaurants/{restaurantId}/menus/{menuId}/items/{itemId}",
//		authz.Chain(
//			middleware.RequireRole(auth.RoleRestaurant),
//			authz.PopulateFromItem(),
//			authz.RequireOwnership(),
//		)(deleteItem)).Methods(http.MethodDelete)
//
// Inside the handler:
//
//	scope := middleware.ScopeFromContext(r.Context())
//	item := scope.Item
//
// The first failing gate writes the error envelope; the rest of the chain
// and the handler do not run. Chains built by an Authorizer also count the
// denial and write an audit record naming the addressed resource.
package middleware
