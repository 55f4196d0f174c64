package task

import (
	"net/http"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeStatus(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// outcomeStatus maps the shared NOT_FOUND/SERVER_UNAVAILABLE/TIMEOUT/else
// tail used by every HSS-backed task (§4.3.1–§4.3.3, §7). TIMEOUT also
// records an overload penalty. The caller handles SUCCESS itself.
func (d *Deps) outcomeStatus(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomeNotFound:
		return http.StatusNotFound
	case domain.OutcomeServerUnavailable:
		return http.StatusServiceUnavailable
	case domain.OutcomeTimeout:
		d.recordPenalty()
		return http.StatusGatewayTimeout
	case domain.OutcomeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
