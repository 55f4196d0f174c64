package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/jsonresp"
)

// LocationInfo serves GET /impu/{impu}/location (§4.3.3).
func (d *Deps) LocationInfo(w http.ResponseWriter, r *http.Request) {
	impu := chi.URLParam(r, "impu")
	q := r.URL.Query()

	answer, err := d.HSS.LocationInfo(r.Context(), domain.LocationInfoRequest{
		IMPU:        impu,
		Originating: q.Get("originating"),
		AuthType:    q.Get("auth-type"),
	})
	if err != nil {
		d.observe("location", http.StatusInternalServerError)
		writeStatus(w, http.StatusInternalServerError)
		return
	}

	if answer.Outcome != domain.OutcomeSuccess {
		// §4.3.3: same mapping as registration status, minus FORBIDDEN.
		status := d.outcomeStatus(answer.Outcome)
		if status == http.StatusForbidden {
			status = http.StatusInternalServerError
		}
		d.observe("location", status)
		writeStatus(w, status)
		return
	}

	serverName := answer.ServerName
	if serverName == "" {
		serverName = answer.Capabilities.PreferredServer
	}

	body, _ := jsonresp.LocationInfo(2001, serverName, answer.Capabilities, answer.Wildcard)
	d.observe("location", http.StatusOK)
	writeJSON(w, http.StatusOK, body)
}
