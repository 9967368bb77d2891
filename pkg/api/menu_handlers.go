package api

import (
	"net/http"

	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

// listMenus handles GET /restaurants/{restaurantId}/menus
func (s *Server) listMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := s.store.ListMenus(r.Context(), scope(r).Restaurant.ID)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	httputil.WriteSuccess(w, menus)
}

// getMenu handles GET /restaurants/{restaurantId}/menus/{menuId}; items are embedded
func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	menu := *scope(r).Menu
	items, err := s.store.ListItems(r.Context(), menu.ID)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	menu.Items = items
	httputil.WriteSuccess(w, &menu)
}

// createMenu handles PUT /restaurants/{restaurantId}/menus
func (s *Server) createMenu(w http.ResponseWriter, r *http.Request) {
	var req restaurants.CreateMenuRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	problems := required(map[string]string{"name": req.Name})
	problems = append(problems, checkClock("startTime", req.StartTime)...)
	problems = append(problems, checkClock("endTime", req.EndTime)...)
	if len(problems) > 0 {
		httputil.WriteErr(w, r, invalidBody(problems...))
		return
	}

	id := scope(r).Restaurant.ID
	menu := &restaurants.Menu{
		RestaurantID: id,
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}
	if err := s.store.CreateMenu(r.Context(), menu); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Restaurant", id)))
		return
	}
	httputil.WriteCreated(w, menu)
}

// updateMenu handles PATCH /restaurants/{restaurantId}/menus/{menuId}
func (s *Server) updateMenu(w http.ResponseWriter, r *http.Request) {
	var req restaurants.UpdateMenuRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	var problems []string
	if req.Name != nil {
		problems = required(map[string]string{"name": *req.Name})
	}
	problems = append(problems, checkClock("startTime", req.StartTime)...)
	problems = append(problems, checkClock("endTime", req.EndTime)...)
	if len(problems) > 0 {
		httputil.WriteErr(w, r, invalidBody(problems...))
		return
	}

	id := scope(r).Menu.ID
	updated, err := s.store.UpdateMenu(r.Context(), id, &req)
	if err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Menu", id)))
		return
	}
	httputil.WriteSuccess(w, updated)
}

// deleteMenu handles DELETE /restaurants/{restaurantId}/menus/{menuId}
func (s *Server) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id := scope(r).Menu.ID
	if err := s.store.DeleteMenu(r.Context(), id); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Menu", id)))
		return
	}
	httputil.WriteNoContent(w)
}
