package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/platinummonkey/restaurant-service/pkg/auth"
	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

// Route parameter names shared by the router and the gates
const (
	ParamRestaurantID = "restaurantId"
	ParamMenuID       = "menuId"
	ParamItemID       = "itemId"
)

// ResourceStore is the slice of restaurants.Store the gates read from
type ResourceStore interface {
	GetRestaurant(ctx context.Context, id string) (*restaurants.Restaurant, error)
	GetMenu(ctx context.Context, id string) (*restaurants.Menu, error)
	GetItem(ctx context.Context, id string) (*restaurants.Item, error)
	ListOwners(ctx context.Context, restaurantID string) ([]*restaurants.RestaurantOwner, error)
}

// Authorizer builds the gates that need storage access
type Authorizer struct {
	store    ResourceStore
	recorder DenialRecorder
	auditor  *auth.AuditLogger
}

// NewAuthorizer creates a new Authorizer
func NewAuthorizer(store ResourceStore) *Authorizer {
	return &Authorizer{store: store}
}

// WithDenialRecorder reports every denial of chains built by this Authorizer to rec
func (a *Authorizer) WithDenialRecorder(rec DenialRecorder) *Authorizer {
	a.recorder = rec
	return a
}

// WithAuditLogger writes an audit record for every denial of chains built by this Authorizer
func (a *Authorizer) WithAuditLogger(al *auth.AuditLogger) *Authorizer {
	a.auditor = al
	return a
}

// Chain is like the package level Chain but reports denials
func (a *Authorizer) Chain(gates ...Gate) func(http.Handler) http.Handler {
	return chain(a, gates)
}

func (a *Authorizer) deny(r *http.Request, scope *Scope, gate string, err error) {
	status := statusOf(err)
	if a.recorder != nil {
		a.recorder.RecordDenial(gate, status)
	}
	if a.auditor != nil {
		kind, id := scope.target()
		_ = a.auditor.LogDenial(r, scope.Identity, kind, id, status, err)
	}
}

// RequireAuthenticated fails with 401 when the request carries no identity
func RequireAuthenticated() Gate {
	return Gate{Name: "authenticated", Check: checkAuthenticated}
}

func checkAuthenticated(_ *http.Request, scope *Scope) error {
	if scope.Identity == nil {
		return httputil.Unauthorized("Unauthorized").
			WithDetails("JWT supplied is missing user information")
	}
	return nil
}

// RequireRole fails with 401 when anonymous and 403 when role is not held
func RequireRole(role auth.Role) Gate {
	return Gate{
		Name: "role:" + string(role),
		Check: func(r *http.Request, scope *Scope) error {
			return checkRole(r, scope, role)
		},
	}
}

func checkRole(r *http.Request, scope *Scope, role auth.Role) error {
	if err := checkAuthenticated(r, scope); err != nil {
		return err
	}
	if !scope.Identity.HasRole(role) {
		return httputil.Forbidden("Forbidden").
			WithDetails("User does not have the correct role to perform this action")
	}
	return nil
}

// RequireRestaurantExists fails with 400 when param is missing and 404 when
// the restaurant does not exist. The restaurant is cached in the Scope.
func (a *Authorizer) RequireRestaurantExists(param string) Gate {
	return Gate{
		Name: "restaurant_exists",
		Check: func(r *http.Request, scope *Scope) error {
			return a.loadRestaurant(r.Context(), scope, param)
		},
	}
}

func (a *Authorizer) loadRestaurant(ctx context.Context, scope *Scope, param string) error {
	id := scope.Param(param)
	if id == "" {
		return httputil.BadRequest("Restaurant ID not specified")
	}
	if scope.Restaurant != nil && scope.Restaurant.ID == id {
		return nil
	}

	restaurant, err := a.store.GetRestaurant(ctx, id)
	if err != nil {
		return lookupError(err, httputil.NotFound(fmt.Sprintf("Could not find Restaurant with ID: %s", id)))
	}
	scope.cacheRestaurant(restaurant)
	return nil
}

// RequireMenuExists fails with 400 when param is missing and 404 when the
// menu does not exist. The menu is cached in the Scope.
func (a *Authorizer) RequireMenuExists(param string) Gate {
	return Gate{
		Name: "menu_exists",
		Check: func(r *http.Request, scope *Scope) error {
			id := scope.Param(param)
			if id == "" {
				return httputil.BadRequest("Menu ID not specified")
			}
			if scope.Menu != nil && scope.Menu.ID == id {
				return nil
			}
			menu, err := a.store.GetMenu(r.Context(), id)
			if err != nil {
				return lookupError(err, httputil.NotFound(fmt.Sprintf("Could not find Menu with ID: %s", id)))
			}
			scope.Menu = menu
			return nil
		},
	}
}

// RequireItemExists fails with 400 when param is missing and 404 when the
// item does not exist. The item is cached in the Scope.
func (a *Authorizer) RequireItemExists(param string) Gate {
	return Gate{
		Name: "item_exists",
		Check: func(r *http.Request, scope *Scope) error {
			id := scope.Param(param)
			if id == "" {
				return httputil.BadRequest("Item ID not specified")
			}
			if scope.Item != nil && scope.Item.ID == id {
				return nil
			}
			item, err := a.store.GetItem(r.Context(), id)
			if err != nil {
				return lookupError(err, httputil.NotFound(fmt.Sprintf("Could not find Item with ID: %s", id)))
			}
			scope.Item = item
			return nil
		},
	}
}

// RequireOwnership requires the "restaurant" role, an existing restaurant named
// by the restaurantId parameter and an owner link between it and the caller.
func (a *Authorizer) RequireOwnership() Gate {
	return Gate{
		Name: "ownership",
		Check: func(r *http.Request, scope *Scope) error {
			if err := checkRole(r, scope, auth.RoleRestaurant); err != nil {
				return err
			}
			if err := a.loadRestaurant(r.Context(), scope, ParamRestaurantID); err != nil {
				return err
			}

			if scope.Owners == nil {
				owners, err := a.store.ListOwners(r.Context(), scope.Restaurant.ID)
				if err != nil {
					return httputil.Internal(fmt.Errorf("failed to load restaurant owners: %w", err))
				}
				if owners == nil {
					owners = []*restaurants.RestaurantOwner{}
				}
				scope.Owners = owners
			}

			for _, owner := range scope.Owners {
				if owner.UserID == scope.Identity.Subject {
					return nil
				}
			}
			return httputil.Forbidden("Forbidden").
				WithDetails("User is not the owner of the restaurant")
		},
	}
}

// lookupError turns a store lookup failure into the response error
func lookupError(err error, notFound *httputil.Error) error {
	if errors.Is(err, restaurants.ErrNotFound) {
		return notFound
	}
	return httputil.Internal(err)
}
