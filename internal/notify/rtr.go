package notify

import (
	"context"
	"net/http"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

// HandleRegistrationTermination implements §4.4.1: select the IRSs the
// notification covers, tell the router to clear their bindings, delete them
// from the cache, and answer the HSS.
func (d *Deps) HandleRegistrationTermination(ctx context.Context, req domain.RegistrationTerminationRequest, trail string) *domain.RegistrationTerminationResult {
	if !req.Reason.Valid() {
		d.observeNotify("RTR", "invalid_reason")
		return &domain.RegistrationTerminationResult{Success: false}
	}

	impis := dedupe(append([]string{req.IMPI}, req.AssociatedIdentities...))

	var (
		irss []*domain.IRS
		err  error
	)
	switch {
	case len(req.IMPUs) > 0 && (req.Reason == domain.ReasonPermanentTermination || req.Reason == domain.ReasonRemoveSCSCF):
		irss, err = d.Cache.GetIRSForIMPUs(ctx, req.IMPUs)
	default:
		irss, err = d.Cache.GetIRSForIMPIs(ctx, impis)
	}
	if err != nil {
		d.observeNotify("RTR", "cache_error")
		return &domain.RegistrationTerminationResult{Success: false}
	}

	if len(irss) == 0 {
		d.observeNotify("RTR", "success")
		return &domain.RegistrationTerminationResult{Success: true}
	}

	defaults := make([]string, 0, len(irss))
	for _, irs := range irss {
		defaults = append(defaults, irs.DefaultPublicID)
	}

	var registrations []domain.RouterRegistration
	if req.Reason == domain.ReasonPermanentTermination {
		for _, dflt := range defaults {
			for _, impi := range impis {
				registrations = append(registrations, domain.RouterRegistration{PrimaryIMPU: dflt, IMPI: impi})
			}
		}
	} else {
		for _, dflt := range defaults {
			registrations = append(registrations, domain.RouterRegistration{PrimaryIMPU: dflt})
		}
	}

	status, routerErr := d.Router.DeregisterBindings(ctx, req.Reason.SendsNotifications(), registrations, trail)

	// Deliberately not awaiting WaitProgress/WaitDone: Registration
	// Termination has no client waiting on read-your-writes, unlike a
	// REGISTER-driven reg-data PUT — the answer to the HSS is keyed off the
	// router's response, not the cache write.
	_, _ = d.Cache.DeleteIRSMany(ctx, irss)

	if routerErr != nil || status != http.StatusOK {
		d.observeNotify("RTR", "router_rejected")
		return &domain.RegistrationTerminationResult{Success: false}
	}

	d.observeNotify("RTR", "success")
	return &domain.RegistrationTerminationResult{Success: true}
}

func (d *Deps) observeNotify(messageType, outcome string) {
	if d.Metrics != nil {
		d.Metrics.ObserveNotify(messageType, outcome)
	}
}
