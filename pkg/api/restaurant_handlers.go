package api

import (
	"net/http"

	"github.com/platinummonkey/restaurant-service/pkg/auth"
	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

// listRestaurants handles GET /restaurants
func (s *Server) listRestaurants(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListRestaurants(r.Context())
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// listMyRestaurants handles GET /restaurants/mine
func (s *Server) listMyRestaurants(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListRestaurantsByOwner(r.Context(), scope(r).Identity.Subject)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

// createRestaurant handles PUT /restaurants.
// The caller becomes the first owner; no role is granted.
func (s *Server) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurants.CreateRestaurantRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if problems := required(map[string]string{"name": req.Name}); len(problems) > 0 {
		httputil.WriteErr(w, r, invalidBody(problems...))
		return
	}

	identity := scope(r).Identity
	restaurant := &restaurants.Restaurant{Name: req.Name, Description: req.Description}
	if err := s.store.CreateRestaurant(r.Context(), restaurant, identity.Subject); err != nil {
		httputil.WriteErr(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RestaurantsCreatedTotal.Inc()
	}
	_ = s.audit.LogFromRequest(r, identity, auth.ActionRestaurantCreate, "restaurant", restaurant.ID, auth.StatusSuccess, nil)

	httputil.WriteCreated(w, restaurant)
}

// getRestaurant handles GET /restaurants/{restaurantId}
func (s *Server) getRestaurant(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, scope(r).Restaurant)
}

// updateRestaurant handles PATCH /restaurants/{restaurantId}
func (s *Server) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurants.UpdateRestaurantRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Name != nil {
		if problems := required(map[string]string{"name": *req.Name}); len(problems) > 0 {
			httputil.WriteErr(w, r, invalidBody(problems...))
			return
		}
	}

	id := scope(r).Restaurant.ID
	updated, err := s.store.UpdateRestaurant(r.Context(), id, &req)
	if err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Restaurant", id)))
		return
	}
	httputil.WriteSuccess(w, updated)
}

// deleteRestaurant handles DELETE /restaurants/{restaurantId}
func (s *Server) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id := scope(r).Restaurant.ID
	if err := s.store.DeleteRestaurant(r.Context(), id); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Restaurant", id)))
		return
	}

	_ = s.audit.LogFromRequest(r, scope(r).Identity, auth.ActionRestaurantDelete, "restaurant", id, auth.StatusSuccess, nil)
	httputil.WriteNoContent(w)
}

// listOwners handles GET /restaurants/{restaurantId}/owners.
// The ownership gate already loaded the links.
func (s *Server) listOwners(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, scope(r).Owners)
}

// addOwner handles PUT /restaurants/{restaurantId}/owners
func (s *Server) addOwner(w http.ResponseWriter, r *http.Request) {
	var req restaurants.AddOwnerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if problems := required(map[string]string{"userId": req.UserID}); len(problems) > 0 {
		httputil.WriteErr(w, r, invalidBody(problems...))
		return
	}

	id := scope(r).Restaurant.ID
	link, err := s.store.AddOwner(r.Context(), id, req.UserID)
	if err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Restaurant", id)))
		return
	}

	if s.metrics != nil {
		s.metrics.OwnersAddedTotal.Inc()
	}
	_ = s.audit.LogFromRequest(r, scope(r).Identity, auth.ActionOwnerAdd, "restaurant", id, auth.StatusSuccess, nil)
	httputil.WriteCreated(w, link)
}

// listTables handles GET /restaurants/{restaurantId}/tables
func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.ListTables(r.Context(), scope(r).Restaurant.ID)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	httputil.WriteSuccess(w, tables)
}

// createTable handles PUT /restaurants/{restaurantId}/tables
func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	var req restaurants.CreateTableRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	problems := required(map[string]string{"name": req.Name})
	if req.Capacity <= 0 {
		problems = append(problems, "capacity must be positive")
	}
	if len(problems) > 0 {
		httputil.WriteErr(w, r, invalidBody(problems...))
		return
	}

	id := scope(r).Restaurant.ID
	table := &restaurants.RestaurantTable{RestaurantID: id, Name: req.Name, Capacity: req.Capacity}
	if err := s.store.CreateTable(r.Context(), table); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Restaurant", id)))
		return
	}
	httputil.WriteCreated(w, table)
}

// deleteTable handles DELETE /restaurants/{restaurantId}/tables/{tableId}
func (s *Server) deleteTable(w http.ResponseWriter, r *http.Request) {
	sc := scope(r)
	tableID := sc.Param("tableId")
	if err := s.store.DeleteTable(r.Context(), sc.Restaurant.ID, tableID); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Table", tableID)))
		return
	}
	httputil.WriteNoContent(w)
}
