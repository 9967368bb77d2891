package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/restaurant-service/pkg/auth"
	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/middleware"
	"github.com/platinummonkey/restaurant-service/pkg/observability"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

// Server represents our API server
type Server struct {
	store    restaurants.Store
	router   *mux.Router
	authz    *middleware.Authorizer
	identity *middleware.IdentityMiddleware
	audit    *auth.AuditLogger
	metrics  *observability.Metrics
	logger   *observability.Logger
}

// Options carries the optional collaborators of a Server
type Options struct {
	Logger *observability.Logger
	// Metrics enables HTTP metrics, gate denial and business counters when set
	Metrics *observability.Metrics
	// Decoder overrides the bearer token decoder
	Decoder *auth.Decoder
}

// NewServer creates a new API server
func NewServer(store restaurants.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	audit := auth.NewAuditLogger(opts.Logger)
	authz := middleware.NewAuthorizer(store).WithAuditLogger(audit)
	if opts.Metrics != nil {
		authz = authz.WithDenialRecorder(opts.Metrics)
	}

	s := &Server{
		store:    store,
		router:   mux.NewRouter(),
		authz:    authz,
		identity: middleware.NewIdentityMiddleware(opts.Decoder),
		audit:    audit,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware,
		observability.RouteSpanNamer,
	)
	if s.metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}
	s.router.Use(s.identity.Handler)

	s.router.NotFoundHandler = httputil.NotFoundHandler()
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteDetailedError(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" "+r.URL.Path)
	})
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	a := s.authz
	owner := middleware.RequireRole(auth.RoleRestaurant)

	// Restaurant routes; /mine must precede /{restaurantId}
	s.handle("/restaurants", s.listRestaurants, "GET")
	s.handle("/restaurants", s.createRestaurant, "PUT", owner)
	s.handle("/restaurants/mine", s.listMyRestaurants, "GET", middleware.RequireAuthenticated())
	s.handle("/restaurants/{restaurantId}", s.getRestaurant, "GET",
		a.RequireRestaurantExists(middleware.ParamRestaurantID))
	s.handle("/restaurants/{restaurantId}", s.updateRestaurant, "PATCH", a.RequireOwnership())
	s.handle("/restaurants/{restaurantId}", s.deleteRestaurant, "DELETE", a.RequireOwnership())

	// Owner routes
	s.handle("/restaurants/{restaurantId}/owners", s.listOwners, "GET", a.RequireOwnership())
	s.handle("/restaurants/{restaurantId}/owners", s.addOwner, "PUT", a.RequireOwnership())

	// Table routes
	s.handle("/restaurants/{restaurantId}/tables", s.listTables, "GET",
		a.RequireRestaurantExists(middleware.ParamRestaurantID))
	s.handle("/restaurants/{restaurantId}/tables", s.createTable, "PUT", a.RequireOwnership())
	s.handle("/restaurants/{restaurantId}/tables/{tableId}", s.deleteTable, "DELETE", a.RequireOwnership())

	// Menu routes
	menus := "/restaurants/{restaurantId}/menus"
	s.handle(menus, s.listMenus, "GET", a.RequireRestaurantExists(middleware.ParamRestaurantID))
	s.handle(menus, s.createMenu, "PUT", a.RequireOwnership())
	s.handle(menus+"/{menuId}", s.getMenu, "GET", a.PopulateFromMenu())
	s.handle(menus+"/{menuId}", s.updateMenu, "PATCH", owner, a.PopulateFromMenu(), a.RequireOwnership())
	s.handle(menus+"/{menuId}", s.deleteMenu, "DELETE", owner, a.PopulateFromMenu(), a.RequireOwnership())

	// Item routes
	items := menus + "/{menuId}/items"
	s.handle(items, s.listItems, "GET", owner, a.PopulateFromMenu(), a.RequireOwnership())
	s.handle(items, s.createItem, "PUT", owner, a.PopulateFromMenu(), a.RequireOwnership())
	s.handle(items+"/{itemId}", s.updateItem, "PATCH", owner, a.PopulateFromItem(), a.RequireOwnership())
	s.handle(items+"/{itemId}/availability", s.updateItemAvailability, "PATCH",
		owner, a.PopulateFromItem(), a.RequireOwnership())
	s.handle(items+"/{itemId}", s.deleteItem, "DELETE", owner, a.PopulateFromItem(), a.RequireOwnership())

	// Internal routes for trusted services
	s.router.HandleFunc("/internal/restaurant/exists", s.restaurantExists).Methods("GET")
	s.router.HandleFunc("/internal/restaurant/owner", s.restaurantOwner).Methods("GET")
	s.router.HandleFunc("/internal/restaurants/{restaurantId}/items", s.restaurantItems).Methods("GET")
}

// handle registers fn behind the given gates
func (s *Server) handle(path string, fn http.HandlerFunc, method string, gates ...middleware.Gate) {
	var h http.Handler = fn
	if len(gates) > 0 {
		h = s.authz.Chain(gates...)(fn)
	}
	s.router.Handle(path, h).Methods(method)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router for additional registrations
func (s *Server) Router() *mux.Router {
	return s.router
}
