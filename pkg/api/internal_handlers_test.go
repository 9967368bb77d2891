package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

func TestInternalRestaurantExists(t *testing.T) {
	env := newTestEnv(t)
	r := env.seedRestaurant(t, "A", ownerOne)

	w := env.do(t, "GET", "/internal/restaurant/exists?id="+r.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"exists":true}}`, w.Body.String())

	w = env.do(t, "GET", "/internal/restaurant/exists?id=unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"data":{"exists":false}}`, w.Body.String())

	w = env.do(t, "GET", "/internal/restaurant/exists", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No restaurant ID provided", decodeError(t, w).Details)
}

func TestInternalRestaurantOwner(t *testing.T) {
	env := newTestEnv(t)
	r := env.seedRestaurant(t, "A", ownerOne)

	tests := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"owner", "?restaurantId=" + r.ID + "&userId=" + ownerOne, http.StatusOK, `{"data":{"isOwner":true}}`},
		{"not owner", "?restaurantId=" + r.ID + "&userId=" + ownerTwo, http.StatusOK, `{"data":{"isOwner":false}}`},
		{"unknown restaurant", "?restaurantId=unknown&userId=" + ownerOne, http.StatusNotFound, ""},
		{"missing user", "?restaurantId=" + r.ID, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "GET", "/internal/restaurant/owner"+tt.query, "", nil)
			require.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestInternalRestaurantItems(t *testing.T) {
	env := newTestEnv(t)
	r1 := env.seedRestaurant(t, "A", ownerOne)
	r2 := env.seedRestaurant(t, "B", ownerTwo)
	soup := env.seedItem(t, env.seedMenu(t, r1.ID, "Lunch").ID, "Soup")
	pie := env.seedItem(t, env.seedMenu(t, r2.ID, "Dessert").ID, "Pie")

	w := env.do(t, "GET", "/internal/restaurants/"+r1.ID+"/items?ids="+soup.ID+","+pie.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []restaurants.Item
	decodeData(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, soup.ID, items[0].ID)

	w = env.do(t, "GET", "/internal/restaurants/"+r1.ID+"/items", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No item IDs provided", decodeError(t, w).Details)

	w = env.do(t, "GET", "/internal/restaurants/unknown/items?ids="+soup.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
