package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var httpErr *httputil.Error
	require.True(t, errors.As(err, &httpErr), "expected *httputil.Error, got %v", err)
	return httpErr.Status
}

func TestPopulateFromItem(t *testing.T) {
	t.Run("resolves the ownership chain", func(t *testing.T) {
		store := fixture()
		a := NewAuthorizer(store)
		scope := NewScope(nil, map[string]string{ParamItemID: "i1"})

		err := a.PopulateFromItem().Check(newRequest(nil, nil), scope)
		require.NoError(t, err)
		assert.Equal(t, "m1", scope.Param(ParamMenuID))
		assert.Equal(t, "r1", scope.Param(ParamRestaurantID))
		assert.Equal(t, "i1", scope.Item.ID)
		assert.Equal(t, "m1", scope.Menu.ID)
		assert.Equal(t, "r1", scope.Restaurant.ID)
		assert.Equal(t, 1, store.Calls("GetItem"))
		assert.Equal(t, 0, store.Calls("GetMenu"))
	})

	tests := []struct {
		name    string
		params  map[string]string
		status  int
		message string
	}{
		{"missing item id", map[string]string{}, http.StatusBadRequest, "Item ID not specified"},
		{"unknown item", map[string]string{ParamItemID: "nope"}, http.StatusNotFound, "Could not find Item with ID: nope"},
		{"item without menu", map[string]string{ParamItemID: "i-orphan"}, http.StatusNotFound, "Could not find Menu for Item with ID: i-orphan"},
		{"menu without restaurant", map[string]string{ParamItemID: "i-deep-orphan"}, http.StatusNotFound, "Could not find Restaurant for Menu with ID: m-orphan"},
		{"path menu differs", map[string]string{ParamItemID: "i1", ParamMenuID: "m2"}, http.StatusBadRequest, ConflictMessage},
		{"path restaurant differs", map[string]string{ParamItemID: "i1", ParamRestaurantID: "r2"}, http.StatusBadRequest, ConflictMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthorizer(fixture())
			scope := NewScope(nil, tt.params)

			err := a.PopulateFromItem().Check(newRequest(nil, nil), scope)
			require.Error(t, err)
			assert.Equal(t, tt.status, statusCode(t, err))
			var httpErr *httputil.Error
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}

	t.Run("matching path ids are accepted", func(t *testing.T) {
		a := NewAuthorizer(fixture())
		scope := NewScope(nil, map[string]string{ParamItemID: "i1", ParamMenuID: "m1", ParamRestaurantID: "r1"})
		require.NoError(t, a.PopulateFromItem().Check(newRequest(nil, nil), scope))
	})
}

func TestPopulateFromMenu(t *testing.T) {
	t.Run("resolves restaurant", func(t *testing.T) {
		a := NewAuthorizer(fixture())
		scope := NewScope(nil, map[string]string{ParamMenuID: "m2"})

		require.NoError(t, a.PopulateFromMenu().Check(newRequest(nil, nil), scope))
		assert.Equal(t, "r2", scope.Param(ParamRestaurantID))
		assert.Equal(t, "r2", scope.Restaurant.ID)
	})

	t.Run("idempotent on the same scope", func(t *testing.T) {
		store := fixture()
		a := NewAuthorizer(store)
		scope := NewScope(nil, map[string]string{ParamMenuID: "m1"})
		gate := a.PopulateFromMenu()

		require.NoError(t, gate.Check(newRequest(nil, nil), scope))
		first := scope.Restaurant
		require.NoError(t, gate.Check(newRequest(nil, nil), scope))

		assert.Same(t, first, scope.Restaurant)
		assert.Equal(t, 1, store.Calls("GetMenu"))
	})

	t.Run("cached menu with another id is a conflict", func(t *testing.T) {
		store := fixture()
		a := NewAuthorizer(store)
		scope := NewScope(nil, map[string]string{ParamMenuID: "m2"})
		scope.Menu = &restaurants.Menu{ID: "m1", RestaurantID: "r1"}

		err := a.PopulateFromMenu().Check(newRequest(nil, nil), scope)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
		assert.Equal(t, "m1", scope.Menu.ID, "cached menu must not be overwritten")
		assert.Equal(t, 0, store.Calls("GetMenu"))
	})

	t.Run("missing menu id", func(t *testing.T) {
		a := NewAuthorizer(fixture())
		err := a.PopulateFromMenu().Check(newRequest(nil, nil), NewScope(nil, nil))
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	})

	t.Run("unknown menu", func(t *testing.T) {
		a := NewAuthorizer(fixture())
		err := a.PopulateFromMenu().Check(newRequest(nil, nil), NewScope(nil, map[string]string{ParamMenuID: "nope"}))
		assert.Equal(t, http.StatusNotFound, statusCode(t, err))
	})

	t.Run("menu whose restaurant is gone", func(t *testing.T) {
		a := NewAuthorizer(fixture())
		err := a.PopulateFromMenu().Check(newRequest(nil, nil), NewScope(nil, map[string]string{ParamMenuID: "m-orphan"}))
		assert.Equal(t, http.StatusNotFound, statusCode(t, err))
	})

	t.Run("menu of another restaurant than the path", func(t *testing.T) {
		a := NewAuthorizer(fixture())
		scope := NewScope(nil, map[string]string{ParamMenuID: "m2", ParamRestaurantID: "r1"})
		err := a.PopulateFromMenu().Check(newRequest(nil, nil), scope)
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	})
}

func TestItemRouteChain(t *testing.T) {
	store := fixture()
	a := NewAuthorizer(store)
	mw := a.Chain(a.PopulateFromItem(), a.RequireOwnership())

	t.Run("owner of the item's restaurant", func(t *testing.T) {
		w, seen := runChain(t, mw, newRequest(restaurantUser("owner-1"), map[string]string{ParamItemID: "i1"}))
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "r1", seen.Param(ParamRestaurantID))
	})

	t.Run("owner of another restaurant", func(t *testing.T) {
		w, _ := runChain(t, mw, newRequest(restaurantUser("owner-2"), map[string]string{ParamItemID: "i1"}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("restaurant is fetched once", func(t *testing.T) {
		before := store.Calls("GetRestaurant")
		runChain(t, mw, newRequest(restaurantUser("owner-1"), map[string]string{ParamItemID: "i1"}))
		assert.Equal(t, before, store.Calls("GetRestaurant"))
	})
}
