package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/middleware"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

const invalidRequestMessage = "Invalid request"

// restaurantExists handles GET /internal/restaurant/exists?id=
func (s *Server) restaurantExists(w http.ResponseWriter, r *http.Request) {
	id := httputil.ParseQueryString(r, "id", "")
	if id == "" {
		httputil.WriteErr(w, r, httputil.BadRequest(invalidRequestMessage).WithDetails("No restaurant ID provided"))
		return
	}

	_, err := s.store.GetRestaurant(r.Context(), id)
	switch {
	case errors.Is(err, restaurants.ErrNotFound):
		httputil.WriteData(w, http.StatusNotFound, map[string]bool{"exists": false})
	case err != nil:
		httputil.WriteErr(w, r, err)
	default:
		httputil.WriteSuccess(w, map[string]bool{"exists": true})
	}
}

// restaurantOwner handles GET /internal/restaurant/owner?restaurantId=&userId=
func (s *Server) restaurantOwner(w http.ResponseWriter, r *http.Request) {
	restaurantID := httputil.ParseQueryString(r, middleware.ParamRestaurantID, "")
	userID := httputil.ParseQueryString(r, "userId", "")
	if problems := required(map[string]string{"restaurantId": restaurantID, "userId": userID}); len(problems) > 0 {
		httputil.WriteErr(w, r, httputil.BadRequest(invalidRequestMessage).WithDetails(strings.Join(problems, "; ")))
		return
	}

	if _, err := s.store.GetRestaurant(r.Context(), restaurantID); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Restaurant", restaurantID)))
		return
	}

	isOwner, err := s.store.IsOwner(r.Context(), restaurantID, userID)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	httputil.WriteSuccess(w, map[string]bool{"isOwner": isOwner})
}

// restaurantItems handles GET /internal/restaurants/{restaurantId}/items?ids=a,b
func (s *Server) restaurantItems(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := httputil.ParsePathString(r, middleware.ParamRestaurantID)
	if err != nil {
		httputil.WriteErr(w, r, httputil.BadRequest("Restaurant ID not specified"))
		return
	}
	ids := httputil.ParseQueryList(r, "ids")
	if len(ids) == 0 {
		httputil.WriteErr(w, r, httputil.BadRequest(invalidRequestMessage).WithDetails("No item IDs provided"))
		return
	}

	if _, err := s.store.GetRestaurant(r.Context(), restaurantID); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Restaurant", restaurantID)))
		return
	}

	items, err := s.store.GetItemsForRestaurant(r.Context(), restaurantID, ids)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	httputil.WriteSuccess(w, items)
}
