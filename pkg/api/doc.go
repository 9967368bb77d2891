// Package api wires the restaurant HTTP surface.
//
// Every route declares its authorization as a gate chain from pkg/middleware:
//
//	PATCH /restaurants/{restaurantId}/menus/{menuId}/items/{itemId}
//	  RequireRole("restaurant") -> PopulateFromItem -> RequireOwnership -> updateItem
//
// Handlers run only after every gate passed and read the resolved entities from
// the request Scope instead of fetching them again. Responses use the
// {"data": ...} and {"error": {...}} envelopes of pkg/httputil.
//
// Routes under /internal are meant for trusted services and carry no gates.
package api
