package notify

import (
	"context"
	"errors"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/xmlsub"
)

// HandlePushProfile implements §4.4.2: a new-XML/new-charging push from the
// HSS. A push that would move an IRS's default public identity is a hard
// rejection by design.
func (d *Deps) HandlePushProfile(ctx context.Context, req domain.PushProfileRequest) *domain.PushProfileResult {
	if req.SubscriptionXML == "" && !req.HasCharging {
		d.observeNotify("PPR", "no_change")
		return &domain.PushProfileResult{Success: true}
	}

	sub, err := d.Cache.GetIMSSubscription(ctx, req.IMPI)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			d.observeNotify("PPR", "not_found")
		} else {
			d.observeNotify("PPR", "cache_error")
		}
		return &domain.PushProfileResult{Success: false}
	}

	if req.SubscriptionXML != "" {
		_, defaultID := xmlsub.GetPublicAndDefaultIDs(req.SubscriptionXML)
		irs := sub.IRSForIMPU(defaultID)
		if irs == nil {
			d.observeNotify("PPR", "default_identity_changed")
			return &domain.PushProfileResult{Success: false}
		}
		irs.SetSubscriptionXML(req.SubscriptionXML)
	}

	if req.HasCharging {
		sub.ApplyChargingAddresses(req.Charging)
	}

	if len(sub.DirtyIRSs()) == 0 {
		d.observeNotify("PPR", "success")
		return &domain.PushProfileResult{Success: true}
	}

	handle, err := d.Cache.PutIMSSubscription(ctx, sub)
	if err != nil {
		d.observeNotify("PPR", "write_failed")
		return &domain.PushProfileResult{Success: false}
	}
	if err := handle.WaitProgress(ctx); err != nil {
		d.observeNotify("PPR", "write_failed")
		return &domain.PushProfileResult{Success: false}
	}

	d.observeNotify("PPR", "success")
	return &domain.PushProfileResult{Success: true}
}
