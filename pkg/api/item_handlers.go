package api

import (
	"net/http"

	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

// listItems handles GET .../menus/{menuId}/items
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context(), scope(r).Menu.ID)
	if err != nil {
		httputil.WriteErr(w, r, err)
		return
	}
	httputil.WriteSuccess(w, items)
}

// createItem handles PUT .../menus/{menuId}/items; items start available unless told otherwise
func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req restaurants.CreateItemRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	problems := required(map[string]string{
		"displayName": req.DisplayName,
		"shortName":   req.ShortName,
	})
	if req.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if len(problems) > 0 {
		httputil.WriteErr(w, r, invalidBody(problems...))
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	menuID := scope(r).Menu.ID
	item := &restaurants.Item{
		MenuID:      menuID,
		DisplayName: req.DisplayName,
		ShortName:   req.ShortName,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: available,
	}
	if err := s.store.CreateItem(r.Context(), item); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Menu", menuID)))
		return
	}
	httputil.WriteCreated(w, item)
}

// updateItem handles PATCH .../items/{itemId}
func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var req restaurants.UpdateItemRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	fields := map[string]string{}
	if req.DisplayName != nil {
		fields["displayName"] = *req.DisplayName
	}
	if req.ShortName != nil {
		fields["shortName"] = *req.ShortName
	}
	problems := required(fields)
	if req.Price != nil && *req.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if len(problems) > 0 {
		httputil.WriteErr(w, r, invalidBody(problems...))
		return
	}

	id := scope(r).Item.ID
	updated, err := s.store.UpdateItem(r.Context(), id, &req)
	if err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Item", id)))
		return
	}
	httputil.WriteSuccess(w, updated)
}

// updateItemAvailability handles PATCH .../items/{itemId}/availability.
// Only a literal JSON true makes the item available.
func (s *Server) updateItemAvailability(w http.ResponseWriter, r *http.Request) {
	var req restaurants.UpdateAvailabilityRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	id := scope(r).Item.ID
	updated, err := s.store.SetItemAvailability(r.Context(), id, req.Available())
	if err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Item", id)))
		return
	}
	httputil.WriteSuccess(w, updated)
}

// deleteItem handles DELETE .../items/{itemId}
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := scope(r).Item.ID
	if err := s.store.DeleteItem(r.Context(), id); err != nil {
		httputil.WriteErr(w, r, storeError(err, notFoundMessage("Item", id)))
		return
	}
	httputil.WriteNoContent(w)
}
