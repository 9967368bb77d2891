package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/restaurant-service/pkg/auth"
	"github.com/platinummonkey/restaurant-service/pkg/contextkeys"
	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
	"github.com/stretchr/testify/require"
)

// stubStore serves fixed entities and counts lookups
type stubStore struct {
	mu          sync.Mutex
	restaurants map[string]*restaurants.Restaurant
	menus       map[string]*restaurants.Menu
	items       map[string]*restaurants.Item
	owners      map[string][]*restaurants.RestaurantOwner
	err         error
	calls       map[string]int
}

func newStubStore() *stubStore {
	return &stubStore{
		restaurants: map[string]*restaurants.Restaurant{},
		menus:       map[string]*restaurants.Menu{},
		items:       map[string]*restaurants.Item{},
		owners:      map[string][]*restaurants.RestaurantOwner{},
		calls:       map[string]int{},
	}
}

func (s *stubStore) count(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *stubStore) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubStore) GetRestaurant(_ context.Context, id string) (*restaurants.Restaurant, error) {
	s.count("GetRestaurant")
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.restaurants[id]
	if !ok {
		return nil, restaurants.ErrNotFound
	}
	return r, nil
}

func (s *stubStore) GetMenu(_ context.Context, id string) (*restaurants.Menu, error) {
	s.count("GetMenu")
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.menus[id]
	if !ok {
		return nil, restaurants.ErrNotFound
	}
	cp := *m
	cp.Restaurant = s.restaurants[m.RestaurantID]
	return &cp, nil
}

func (s *stubStore) GetItem(_ context.Context, id string) (*restaurants.Item, error) {
	s.count("GetItem")
	if s.err != nil {
		return nil, s.err
	}
	it, ok := s.items[id]
	if !ok {
		return nil, restaurants.ErrNotFound
	}
	cp := *it
	if m, ok := s.menus[it.MenuID]; ok {
		mc := *m
		mc.Restaurant = s.restaurants[m.RestaurantID]
		cp.Menu = &mc
	}
	return &cp, nil
}

func (s *stubStore) ListOwners(_ context.Context, restaurantID string) ([]*restaurants.RestaurantOwner, error) {
	s.count("ListOwners")
	if s.err != nil {
		return nil, s.err
	}
	return s.owners[restaurantID], nil
}

// fixture builds restaurant r1 (owned by owner-1) -> menu m1 -> item i1,
// a second restaurant r2 with menu m2, and orphaned rows.
func fixture() *stubStore {
	s := newStubStore()
	s.restaurants["r1"] = &restaurants.Restaurant{ID: "r1", Name: "Chez Go"}
	s.restaurants["r2"] = &restaurants.Restaurant{ID: "r2", Name: "Other"}
	s.menus["m1"] = &restaurants.Menu{ID: "m1", RestaurantID: "r1", Name: "Lunch"}
	s.menus["m2"] = &restaurants.Menu{ID: "m2", RestaurantID: "r2", Name: "Dinner"}
	s.menus["m-orphan"] = &restaurants.Menu{ID: "m-orphan", RestaurantID: "gone", Name: "Orphan"}
	s.items["i1"] = &restaurants.Item{ID: "i1", MenuID: "m1", DisplayName: "Soup"}
	s.items["i-orphan"] = &restaurants.Item{ID: "i-orphan", MenuID: "gone", DisplayName: "Lost"}
	s.items["i-deep-orphan"] = &restaurants.Item{ID: "i-deep-orphan", MenuID: "m-orphan", DisplayName: "Lost"}
	s.owners["r1"] = []*restaurants.RestaurantOwner{{RestaurantID: "r1", UserID: "owner-1"}}
	s.owners["r2"] = []*restaurants.RestaurantOwner{{RestaurantID: "r2", UserID: "owner-2"}}
	return s
}

func restaurantUser(sub string) *auth.Identity {
	return &auth.Identity{Subject: sub, Roles: []string{string(auth.RoleRestaurant)}}
}

// newRequest builds a request carrying identity (may be nil) and route vars
func newRequest(identity *auth.Identity, vars map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if identity != nil {
		req = req.WithContext(contextkeys.WithIdentity(req.Context(), identity))
	}
	return mux.SetURLVars(req, vars)
}

// runChain serves req through handler-wrapped gates and reports what the handler saw
func runChain(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, *Scope) {
	t.Helper()
	var seen *Scope
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ScopeFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w, seen
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

type recordedDenial struct {
	gate   string
	status int
}

type denialRecorder struct {
	denials []recordedDenial
}

func (d *denialRecorder) RecordDenial(gate string, status int) {
	d.denials = append(d.denials, recordedDenial{gate: gate, status: status})
}
