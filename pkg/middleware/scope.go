package middleware

import (
	"context"

	"github.com/platinummonkey/restaurant-service/pkg/auth"
	"github.com/platinummonkey/restaurant-service/pkg/contextkeys"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

// Scope is the per-request state shared by gates, resolver steps and the handler.
// It is created by Chain for every request and never outlives it.
type Scope struct {
	Identity *auth.Identity
	Params   map[string]string

	Restaurant *restaurants.Restaurant
	Menu       *restaurants.Menu
	Item       *restaurants.Item
	// Owners holds the owner links of Restaurant once an ownership check loaded them
	Owners []*restaurants.RestaurantOwner
}

// NewScope creates a Scope holding its own copy of params
func NewScope(identity *auth.Identity, params map[string]string) *Scope {
	cp := make(map[string]string, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return &Scope{Identity: identity, Params: cp}
}

// Param returns a route parameter, "" when absent
func (s *Scope) Param(name string) string {
	return s.Params[name]
}

// SetParam writes a route parameter resolved from the ownership chain
func (s *Scope) SetParam(name, value string) {
	s.Params[name] = value
}

// target names the most specific resource the request addresses
func (s *Scope) target() (kind, id string) {
	switch {
	case s.Param(ParamItemID) != "":
		return "item", s.Param(ParamItemID)
	case s.Param(ParamMenuID) != "":
		return "menu", s.Param(ParamMenuID)
	case s.Param(ParamRestaurantID) != "":
		return "restaurant", s.Param(ParamRestaurantID)
	}
	return "route", ""
}

// cacheRestaurant stores r, dropping owner links that belonged to another restaurant
func (s *Scope) cacheRestaurant(r *restaurants.Restaurant) {
	if s.Restaurant == nil || s.Restaurant.ID != r.ID {
		s.Owners = nil
	}
	s.Restaurant = r
}

// ScopeFromContext returns the Scope attached by Chain, or nil
func ScopeFromContext(ctx context.Context) *Scope {
	scope, ok := ctx.Value(contextkeys.ScopeKey).(*Scope)
	if !ok {
		return nil
	}
	return scope
}
