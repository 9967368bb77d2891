package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/platinummonkey/restaurant-service/pkg/httputil"
)

// ConflictMessage is returned when a path id disagrees with an id resolved from the ownership chain
const ConflictMessage = "Conflict whilst processing requested resource"

func conflict(param, got, resolved string) error {
	return httputil.BadRequest(ConflictMessage).
		WithDetails(fmt.Sprintf("%s %q does not match resolved %s %q", param, got, param, resolved))
}

// PopulateFromItem resolves the item named by the itemId parameter together
// with its menu and restaurant, writes menuId and restaurantId into the Scope
// params and caches all three entities.
func (a *Authorizer) PopulateFromItem() Gate {
	return Gate{
		Name: "populate_item",
		Check: func(r *http.Request, scope *Scope) error {
			return a.populateFromItem(r.Context(), scope)
		},
	}
}

// PopulateFromMenu resolves the menu named by the menuId parameter and its
// restaurant, writes restaurantId into the Scope params and caches both.
// A menu already cached in the Scope is reused and must carry the same id.
func (a *Authorizer) PopulateFromMenu() Gate {
	return Gate{
		Name: "populate_menu",
		Check: func(r *http.Request, scope *Scope) error {
			return a.populateFromMenu(r.Context(), scope)
		},
	}
}

func (a *Authorizer) populateFromItem(ctx context.Context, scope *Scope) error {
	itemID := scope.Param(ParamItemID)
	if itemID == "" {
		return httputil.BadRequest("Item ID not specified")
	}

	item := scope.Item
	if item == nil || item.ID != itemID || item.Menu == nil {
		loaded, err := a.store.GetItem(ctx, itemID)
		if err != nil {
			return lookupError(err, httputil.NotFound(fmt.Sprintf("Could not find Item with ID: %s", itemID)))
		}
		item = loaded
	}
	if item.Menu == nil {
		return httputil.NotFound(fmt.Sprintf("Could not find Menu for Item with ID: %s", itemID))
	}
	if item.Menu.Restaurant == nil {
		return httputil.NotFound(fmt.Sprintf("Could not find Restaurant for Menu with ID: %s", item.Menu.ID))
	}

	if menuID := scope.Param(ParamMenuID); menuID != "" && menuID != item.Menu.ID {
		return conflict(ParamMenuID, menuID, item.Menu.ID)
	}
	if scope.Menu != nil && scope.Menu.ID != item.Menu.ID {
		return conflict(ParamMenuID, scope.Menu.ID, item.Menu.ID)
	}

	scope.Item = item
	scope.SetParam(ParamMenuID, item.Menu.ID)
	if scope.Menu == nil {
		scope.Menu = item.Menu
	}
	return a.populateFromMenu(ctx, scope)
}

func (a *Authorizer) populateFromMenu(ctx context.Context, scope *Scope) error {
	menuID := scope.Param(ParamMenuID)
	if menuID == "" {
		return httputil.BadRequest("Menu ID not specified")
	}

	menu := scope.Menu
	if menu != nil {
		if menu.ID != menuID {
			return conflict(ParamMenuID, menuID, menu.ID)
		}
	}
	if menu == nil || menu.Restaurant == nil {
		loaded, err := a.store.GetMenu(ctx, menuID)
		if err != nil {
			return lookupError(err, httputil.NotFound(fmt.Sprintf("Could not find Menu with ID: %s", menuID)))
		}
		menu = loaded
	}
	if menu.Restaurant == nil {
		return httputil.NotFound(fmt.Sprintf("Could not find Restaurant for Menu with ID: %s", menuID))
	}

	if restaurantID := scope.Param(ParamRestaurantID); restaurantID != "" && restaurantID != menu.Restaurant.ID {
		return conflict(ParamRestaurantID, restaurantID, menu.Restaurant.ID)
	}

	scope.Menu = menu
	scope.SetParam(ParamRestaurantID, menu.Restaurant.ID)
	scope.cacheRestaurant(menu.Restaurant)
	return nil
}
