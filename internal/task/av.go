package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/jsonresp"
)

// schemeForURLTail maps the final URL path segment to the configured Cx
// scheme string (§4.3.1): "digest" pins digest, "aka"/"aka2" pin
// AKAv1/AKAv2. "av" is the legacy negotiated-scheme form — the MAR
// carries no scheme hint and the answer's own scheme decides the reply
// shape.
func (d *Deps) schemeForURLTail(tail string) (wire string, wantAKA bool) {
	switch tail {
	case "digest":
		return d.Config.SchemeDigest, false
	case "aka":
		return d.Config.SchemeAKAv1, true
	case "aka2":
		return d.Config.SchemeAKAv2, true
	default: // "av": no scheme hint, let the HSS answer decide
		return "", false
	}
}

// AVLookup serves GET /impi/{impi}/digest and GET /impi/{impi}/{av|aka|aka2}
// (§4.3.1).
func (d *Deps) AVLookup(w http.ResponseWriter, r *http.Request) {
	impi := chi.URLParam(r, "impi")
	tail := chi.URLParam(r, "scheme")
	if tail == "" {
		tail = "digest"
	}
	publicID := r.URL.Query().Get("public_id")
	if publicID == "" {
		publicID = r.URL.Query().Get("impu")
	}

	if publicID == "" {
		d.observe("av", http.StatusNotFound)
		writeStatus(w, http.StatusNotFound)
		return
	}

	wireScheme, wantAKA := d.schemeForURLTail(tail)
	req := domain.MultimediaAuthRequest{
		IMPI:          impi,
		IMPU:          publicID,
		ServerName:    r.URL.Query().Get("server-name"),
		Scheme:        wireScheme,
		Authorization: r.URL.Query().Get("resync-auth"),
	}

	answer, err := d.HSS.MultimediaAuth(r.Context(), req)
	if err != nil {
		d.observe("av", http.StatusInternalServerError)
		writeStatus(w, http.StatusInternalServerError)
		return
	}

	if answer.Outcome != domain.OutcomeSuccess {
		status := d.outcomeStatus(answer.Outcome)
		d.observe("av", status)
		writeStatus(w, status)
		return
	}

	switch answer.AV.Kind {
	case domain.AuthVectorDigest:
		if wantAKA {
			d.observe("av", http.StatusNotFound)
			writeStatus(w, http.StatusNotFound)
			return
		}
		body, _ := jsonresp.Digest(answer.AV)
		d.observe("av", http.StatusOK)
		writeJSON(w, http.StatusOK, body)
	case domain.AuthVectorAKA:
		if !wantAKA && tail != "av" {
			d.observe("av", http.StatusNotFound)
			writeStatus(w, http.StatusNotFound)
			return
		}
		body, _ := jsonresp.AKA(answer.AV)
		d.observe("av", http.StatusOK)
		writeJSON(w, http.StatusOK, body)
	default:
		d.observe("av", http.StatusNotFound)
		writeStatus(w, http.StatusNotFound)
	}
}
