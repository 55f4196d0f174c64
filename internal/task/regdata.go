package task

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/jsonresp"
	"github.com/clearwater-hss/cx-gateway/internal/xmlsub"
)

// RegData serves both branches of /impu/{impu}/reg-data (§4.3.4): GET reads
// the cached IRS, PUT runs the mutation engine. Any other method is 405.
func (d *Deps) RegData(w http.ResponseWriter, r *http.Request) {
	impu := chi.URLParam(r, "impu")
	switch r.Method {
	case http.MethodGet:
		d.regDataRead(w, r, impu)
	case http.MethodPut:
		d.regDataMutate(w, r, impu)
	default:
		d.observe("reg-data", http.StatusMethodNotAllowed)
		writeStatus(w, http.StatusMethodNotAllowed)
	}
}

// ReadOnlyRegData is §4.3.5: the read-only variant that rejects every
// method but GET.
func (d *Deps) ReadOnlyRegData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		d.observe("reg-data-readonly", http.StatusMethodNotAllowed)
		writeStatus(w, http.StatusMethodNotAllowed)
		return
	}
	d.regDataRead(w, r, chi.URLParam(r, "impu"))
}

func (d *Deps) regDataRead(w http.ResponseWriter, r *http.Request, impu string) {
	irs, err := d.Cache.GetIRSForIMPU(r.Context(), impu)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		d.observe("reg-data", http.StatusNotFound)
		writeStatus(w, http.StatusNotFound)
		return
	case err != nil:
		d.observe("reg-data", http.StatusGatewayTimeout)
		writeStatus(w, http.StatusGatewayTimeout)
		return
	}

	d.replyRegData(w, irs, "")
}

// replyRegData renders the §4.3.4 reply body. prevState is included as a
// sibling only when non-empty — the caller decides that per the REG/CALL
// vs. dereg/GET distinction.
func (d *Deps) replyRegData(w http.ResponseWriter, irs *domain.IRS, prevState domain.RegistrationState) {
	body, err := xmlsub.BuildClearwaterRegDataXML(irs.State, irs.SubscriptionXML, irs.Charging, prevState)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Error("reg-data: malformed subscription xml",
				zap.String("impu", irs.DefaultPublicID),
				zap.Strings("impis", irs.AssociatedPrivateIDs),
				zap.Error(err))
		}
		d.observe("reg-data", http.StatusInternalServerError)
		writeStatus(w, http.StatusInternalServerError)
		return
	}
	d.observe("reg-data", http.StatusOK)
	writeXML(w, http.StatusOK, body)
}

func (d *Deps) regDataMutate(w http.ResponseWriter, r *http.Request, urlIMPU string) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		d.observe("reg-data", http.StatusBadRequest)
		writeStatus(w, http.StatusBadRequest)
		return
	}
	parsed, err := jsonresp.ParseRegDataPutBody(raw)
	if err != nil {
		d.observe("reg-data", http.StatusBadRequest)
		writeStatus(w, http.StatusBadRequest)
		return
	}
	putBody := *parsed
	if err := d.validate().Struct(putBody); err != nil {
		d.observe("reg-data", http.StatusBadRequest)
		writeStatus(w, http.StatusBadRequest)
		return
	}

	reqtype := domain.ParseRequestType(putBody.ReqType)
	if reqtype == domain.RequestTypeUnknown {
		d.observe("reg-data", http.StatusBadRequest)
		writeStatus(w, http.StatusBadRequest)
		return
	}

	suppliedImpi := r.URL.Query().Get("private_id")
	noCache := r.Header.Get("Cache-Control") == "no-cache"

	// The HSS-supplied wildcard from a prior iteration always wins over the
	// router-supplied one, per §4.3.4 and §9's "Wildcard handling" note.
	wildcard := putBody.WildcardIdentity

	for {
		lookupIMPU := urlIMPU
		if wildcard != "" {
			lookupIMPU = wildcard
		}

		irs, err := d.Cache.GetIRSForIMPU(r.Context(), lookupIMPU)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			irs = domain.NewEmptyIRS()
		case err != nil:
			d.observe("reg-data", http.StatusGatewayTimeout)
			writeStatus(w, http.StatusGatewayTimeout)
			return
		}

		prevState := irs.State

		impi := suppliedImpi
		if impi == "" {
			impi = xmlsub.GetPrivateID(irs.SubscriptionXML)
		}
		isNewBinding := !irs.HasImpi(impi)

		var sarType domain.ServerAssignmentType
		needSAR := false

		switch reqtype {
		case domain.RequestTypeReg:
			if prevState == domain.RegistrationStateRegistered && !isNewBinding {
				age := d.Config.RecordTTL - irs.TTL
				if age >= d.Config.HSSReregistrationTime || noCache {
					sarType, needSAR = domain.SARReRegistration, true
				} else {
					d.replyRegData(w, irs, prevState)
					return
				}
			} else {
				irs.State = domain.RegistrationStateRegistered
				irs.AddImpi(impi)
				sarType, needSAR = domain.SARRegistration, true
			}

		case domain.RequestTypeCall:
			if prevState == domain.RegistrationStateNotRegistered {
				irs.State = domain.RegistrationStateUnregistered
				sarType, needSAR = domain.SARUnregisteredUser, true
			} else {
				d.replyRegData(w, irs, prevState)
				return
			}

		case domain.RequestTypeDeregUser, domain.RequestTypeDeregAdmin, domain.RequestTypeDeregTimeout:
			if prevState != domain.RegistrationStateNotRegistered {
				irs.State = domain.RegistrationStateNotRegistered
				sarType, needSAR = domain.SARTypeForDereg(reqtype), true
			} else {
				d.observe("reg-data", http.StatusBadRequest)
				writeStatus(w, http.StatusBadRequest)
				return
			}

		case domain.RequestTypeDeregAuthFailed, domain.RequestTypeDeregAuthTimeout:
			// State deliberately left unchanged (spec.md §9's open question:
			// preserved verbatim from the source).
			sarType, needSAR = domain.SARTypeForDereg(reqtype), true
		}

		if !needSAR {
			d.replyRegData(w, irs, prevState)
			return
		}

		answer, err := d.HSS.ServerAssignment(r.Context(), domain.ServerAssignmentRequest{
			IMPI:              impi,
			IMPU:              lookupIMPU,
			ServerName:        putBody.ServerName,
			Type:              sarType,
			SupportSharedIFCs: d.Config.SupportSharedIFCs,
			WildcardIMPU:      wildcard,
		})
		if err != nil {
			d.observe("reg-data", http.StatusInternalServerError)
			writeStatus(w, http.StatusInternalServerError)
			return
		}

		switch {
		case answer.Outcome == domain.OutcomeNewWildcard:
			if answer.Wildcard != "" && answer.Wildcard == wildcard {
				// Equality loop-break: the HSS keeps handing back the same
				// wildcard, so stop redirecting (§8's "Wildcard loop-break").
				d.observe("reg-data", http.StatusInternalServerError)
				writeStatus(w, http.StatusInternalServerError)
				return
			}
			wildcard = answer.Wildcard
			continue // restart the flow from the cache read

		case reqtype.IsDeregistrationRequest() && answer.Outcome != domain.OutcomeServerUnavailable:
			handle, err := d.Cache.DeleteIRS(r.Context(), irs)
			if err != nil {
				d.observe("reg-data", http.StatusServiceUnavailable)
				writeStatus(w, http.StatusServiceUnavailable)
				return
			}
			if err := handle.WaitProgress(r.Context()); err != nil {
				d.observe("reg-data", http.StatusServiceUnavailable)
				writeStatus(w, http.StatusServiceUnavailable)
				return
			}
			d.replyRegData(w, irs, "")
			return

		case !reqtype.IsDereg() && answer.Outcome == domain.OutcomeSuccess:
			irs.SetCharging(answer.Charging)
			if answer.ServiceProfile != "" {
				irs.SetSubscriptionXML(answer.ServiceProfile)
				publicIDs, defaultID := xmlsub.GetPublicAndDefaultIDs(answer.ServiceProfile)
				irs.PublicIDs = publicIDs
				irs.DefaultPublicID = defaultID
				irs.Barred = defaultID == "" && len(publicIDs) > 0
			}
			irs.TTL = d.Config.RecordTTL
			handle, err := d.Cache.PutIRS(r.Context(), irs)
			if err != nil {
				d.observe("reg-data", http.StatusServiceUnavailable)
				writeStatus(w, http.StatusServiceUnavailable)
				return
			}
			if err := handle.WaitProgress(r.Context()); err != nil {
				d.observe("reg-data", http.StatusServiceUnavailable)
				writeStatus(w, http.StatusServiceUnavailable)
				return
			}
			d.replyRegData(w, irs, prevState)
			return

		case reqtype.IsAuthFailureDereg() && answer.Outcome == domain.OutcomeSuccess:
			// Auth-failure SARs never touch the cache either way (§9's
			// "Post-SAR" design note) — reply with the state read at the
			// top of this iteration, not anything carried on the SAA.
			d.replyRegData(w, irs, prevState)
			return

		default:
			status := d.outcomeStatus(answer.Outcome)
			d.observe("reg-data", status)
			writeStatus(w, status)
			return
		}
	}
}
