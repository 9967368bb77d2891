package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/observability"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

const (
	ownerOne = "user-1"
	ownerTwo = "user-2"
)

type testEnv struct {
	server  *Server
	store   *restaurants.MemoryStore
	metrics *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := restaurants.NewMemoryStore()
	return newTestEnvWithStore(t, store, store)
}

func newTestEnvWithStore(t *testing.T, store restaurants.Store, mem *restaurants.MemoryStore) *testEnv {
	t.Helper()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	server := NewServer(store, Options{
		Logger:  observability.NewLogger(observability.ErrorLevel, io.Discard),
		Metrics: metrics,
	})
	return &testEnv{server: server, store: mem, metrics: metrics}
}

// token builds a bearer token carrying sub and roles; signatures are never checked
func token(t *testing.T, sub string, roles ...string) string {
	t.Helper()
	if roles == nil {
		roles = []string{}
	}
	claims := jwt.MapClaims{
		"sub":          sub,
		"name":         "Test " + sub,
		"realm_access": map[string]interface{}{"roles": roles},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// ownerToken is a token with the restaurant role
func ownerToken(t *testing.T, sub string) string {
	return token(t, sub, "restaurant")
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

// seedRestaurant creates a restaurant owned by owner directly in the store
func (e *testEnv) seedRestaurant(t *testing.T, name, owner string) *restaurants.Restaurant {
	t.Helper()
	r := &restaurants.Restaurant{Name: name}
	require.NoError(t, e.store.CreateRestaurant(context.Background(), r, owner))
	return r
}

func (e *testEnv) seedMenu(t *testing.T, restaurantID, name string) *restaurants.Menu {
	t.Helper()
	m := &restaurants.Menu{RestaurantID: restaurantID, Name: name}
	require.NoError(t, e.store.CreateMenu(context.Background(), m))
	return m
}

func (e *testEnv) seedItem(t *testing.T, menuID, name string) *restaurants.Item {
	t.Helper()
	it := &restaurants.Item{MenuID: menuID, DisplayName: name, ShortName: name[:1], Price: 5, IsAvailable: true}
	require.NoError(t, e.store.CreateItem(context.Background(), it))
	return it
}

// failingStore fails every restaurant listing with a driver error
type failingStore struct {
	restaurants.Store
}

func (failingStore) ListRestaurants(context.Context) ([]*restaurants.Restaurant, error) {
	return nil, errDriver
}

func (failingStore) GetRestaurant(context.Context, string) (*restaurants.Restaurant, error) {
	return nil, errDriver
}

var errDriver = errors.New("pq: connection reset by peer")

func itemPath(restaurantID, menuID, itemID string) string {
	return "/restaurants/" + restaurantID + "/menus/" + menuID + "/items/" + itemID
}

var _ http.Handler = (*Server)(nil)
