package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/jsonresp"
)

// RegistrationStatus serves GET /impi/{impi}/registration-status (§4.3.2).
func (d *Deps) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	impi := chi.URLParam(r, "impi")
	q := r.URL.Query()

	impu := q.Get("impu")
	if impu == "" {
		d.observe("registration-status", http.StatusBadRequest)
		writeStatus(w, http.StatusBadRequest)
		return
	}

	visitedNetwork := q.Get("visited-network")
	if visitedNetwork == "" {
		visitedNetwork = d.Config.Realm
	}

	answer, err := d.HSS.UserAuth(r.Context(), domain.UserAuthRequest{
		IMPI:           impi,
		IMPU:           impu,
		VisitedNetwork: visitedNetwork,
		AuthType:       q.Get("auth-type"),
		Emergency:      q.Get("sos") == "true",
	})
	if err != nil {
		d.observe("registration-status", http.StatusInternalServerError)
		writeStatus(w, http.StatusInternalServerError)
		return
	}

	if answer.Outcome != domain.OutcomeSuccess {
		status := d.outcomeStatus(answer.Outcome)
		d.observe("registration-status", status)
		writeStatus(w, status)
		return
	}

	serverName := answer.ServerName
	if serverName == "" {
		serverName = answer.Capabilities.PreferredServer
	}

	body, _ := jsonresp.RegistrationStatus(2001, serverName, answer.Capabilities)
	d.observe("registration-status", http.StatusOK)
	writeJSON(w, http.StatusOK, body)

	if d.Health != nil {
		d.Health.NotifyHealthy()
	}
}
