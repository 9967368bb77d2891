package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/platinummonkey/restaurant-service/pkg/httputil"
	"github.com/platinummonkey/restaurant-service/pkg/middleware"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
)

// InvalidBodyMessage is the message of every 400 caused by the request body
const InvalidBodyMessage = "Invalid request body"

// storeError maps a store failure to the response error.
// A missing entity becomes a 404 with notFound as message.
func storeError(err error, notFound string) error {
	if errors.Is(err, restaurants.ErrNotFound) {
		return httputil.NotFound(notFound)
	}
	return httputil.Internal(err)
}

func notFoundMessage(kind, id string) string {
	return fmt.Sprintf("Could not find %s with ID: %s", kind, id)
}

// invalidBody reports the offending fields of a request body
func invalidBody(problems ...string) error {
	return httputil.BadRequest(InvalidBodyMessage).WithDetails(strings.Join(problems, "; "))
}

// required returns a problem for every blank field, keyed by its JSON name
func required(fields map[string]string) []string {
	var problems []string
	for _, name := range sortedKeys(fields) {
		if strings.TrimSpace(fields[name]) == "" {
			problems = append(problems, name+" is required")
		}
	}
	return problems
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkClock validates an optional "HH:MM" time of day
func checkClock(field string, value *string) []string {
	if value == nil {
		return nil
	}
	if _, err := time.Parse("15:04", *value); err != nil || len(*value) != 5 {
		return []string{field + " must be HH:MM"}
	}
	return nil
}

// scope returns the request Scope built by the gate chain
func scope(r *http.Request) *middleware.Scope {
	return middleware.ScopeFromContext(r.Context())
}
