package middleware

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/restaurant-service/pkg/contextkeys"
	"github.com/platinummonkey/restaurant-service/pkg/httputil"
)

// Gate is a single named authorization step.
// Check returns nil to continue or an error that terminates the request;
// *httputil.Error values choose the status, anything else becomes a 500.
type Gate struct {
	Name  string
	Check func(r *http.Request, scope *Scope) error
}

// DenialRecorder is told about every request a gate stopped
type DenialRecorder interface {
	RecordDenial(gate string, status int)
}

// Chain runs gates left to right in front of the handler.
// The first failing gate writes the error envelope; later gates and the handler never run.
func Chain(gates ...Gate) func(http.Handler) http.Handler {
	return chain(nil, gates)
}

// chain reports denials to a when it is not nil
func chain(a *Authorizer, gates []Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := ScopeFromContext(r.Context())
			if scope == nil {
				scope = NewScope(GetIdentity(r), mux.Vars(r))
				r = r.WithContext(contextkeys.WithScope(r.Context(), scope))
			}

			for _, gate := range gates {
				if err := gate.Check(r, scope); err != nil {
					if a != nil {
						a.deny(r, scope, gate.Name, err)
					}
					httputil.WriteErr(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func statusOf(err error) int {
	var httpErr *httputil.Error
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}
