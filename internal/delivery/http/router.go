// Package http wires the router-facing task handlers (§4.3) onto a chi
// router. It deliberately does not reuse Response/WriteSuccess/WriteError:
// the Cx router-facing endpoints return bare JSON/XML bodies in the exact
// shapes §4.3/§4.6/§4.7 specify, not a generic envelope.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearwater-hss/cx-gateway/internal/task"
)

// NewRouter builds the full router-facing HTTP surface (§4.3) on top of a
// fresh chi.Mux. Callers mount middleware and a health endpoint around it.
func NewRouter(deps *task.Deps) chi.Router {
	r := chi.NewRouter()

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/impi/{impi}/digest", deps.AVLookup)
	r.Get("/impi/{impi}/{scheme}", deps.AVLookup)
	r.Get("/impi/{impi}/registration-status", deps.RegistrationStatus)
	r.Get("/impu/{impu}/location", deps.LocationInfo)

	r.Route("/impu/{impu}/reg-data", func(r chi.Router) {
		r.Get("/", deps.RegData)
		r.Put("/", deps.RegData)
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		})
	})

	r.Get("/impu/{impu}/reg-data-readonly", deps.ReadOnlyRegData)

	return r
}
