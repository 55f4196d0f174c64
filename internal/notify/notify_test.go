package notify

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

type fakeCache struct {
	byIMPU map[string]*domain.IRS
	byIMPI map[string]*domain.IMSSubscription

	getIMPUsErr error
	getIMPIsErr error
	getSubErr   error
	putSubErr   error

	deletedIRSs []*domain.IRS
	putSub      *domain.IMSSubscription
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		byIMPU: make(map[string]*domain.IRS),
		byIMPI: make(map[string]*domain.IMSSubscription),
	}
}

func (c *fakeCache) GetIRSForIMPU(ctx context.Context, impu string) (*domain.IRS, error) {
	irs, ok := c.byIMPU[impu]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return irs, nil
}

func (c *fakeCache) GetIRSForIMPIs(ctx context.Context, impis []string) ([]*domain.IRS, error) {
	if c.getIMPIsErr != nil {
		return nil, c.getIMPIsErr
	}
	var out []*domain.IRS
	seen := make(map[*domain.IRS]bool)
	for _, impi := range impis {
		sub, ok := c.byIMPI[impi]
		if !ok {
			continue
		}
		for _, irs := range sub.IRSs {
			if !seen[irs] {
				seen[irs] = true
				out = append(out, irs)
			}
		}
	}
	return out, nil
}

func (c *fakeCache) GetIRSForIMPUs(ctx context.Context, impus []string) ([]*domain.IRS, error) {
	if c.getIMPUsErr != nil {
		return nil, c.getIMPUsErr
	}
	var out []*domain.IRS
	for _, impu := range impus {
		if irs, ok := c.byIMPU[impu]; ok {
			out = append(out, irs)
		}
	}
	return out, nil
}

func (c *fakeCache) GetIMSSubscription(ctx context.Context, impi string) (*domain.IMSSubscription, error) {
	if c.getSubErr != nil {
		return nil, c.getSubErr
	}
	sub, ok := c.byIMPI[impi]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sub, nil
}

func (c *fakeCache) CreateIRS() *domain.IRS { return domain.NewEmptyIRS() }

func (c *fakeCache) PutIRS(ctx context.Context, irs *domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}

func (c *fakeCache) DeleteIRS(ctx context.Context, irs *domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}

func (c *fakeCache) DeleteIRSMany(ctx context.Context, irss []*domain.IRS) (*domain.MutationHandle, error) {
	c.deletedIRSs = irss
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}

func (c *fakeCache) PutIMSSubscription(ctx context.Context, sub *domain.IMSSubscription) (*domain.MutationHandle, error) {
	if c.putSubErr != nil {
		return nil, c.putSubErr
	}
	c.putSub = sub
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}

type fakeRouter struct {
	status int
	err    error

	lastSendNotifications bool
	lastRegistrations      []domain.RouterRegistration
}

func (r *fakeRouter) DeregisterBindings(ctx context.Context, sendNotifications bool, registrations []domain.RouterRegistration, trail string) (int, error) {
	r.lastSendNotifications = sendNotifications
	r.lastRegistrations = registrations
	if r.err != nil {
		return 0, r.err
	}
	return r.status, nil
}

func TestRTR_InvalidReason(t *testing.T) {
	d := &Deps{Cache: newFakeCache(), Router: &fakeRouter{}}
	result := d.HandleRegistrationTermination(context.Background(), domain.RegistrationTerminationRequest{
		Reason: domain.DeregistrationReason(99),
		IMPI:   "bob@example.com",
	}, "trail-1")

	assert.False(t, result.Success)
}

func TestRTR_NoIRSsFoundIsSuccess(t *testing.T) {
	d := &Deps{Cache: newFakeCache(), Router: &fakeRouter{status: http.StatusOK}}
	result := d.HandleRegistrationTermination(context.Background(), domain.RegistrationTerminationRequest{
		Reason: domain.ReasonPermanentTermination,
		IMPI:   "bob@example.com",
	}, "trail-1")

	require.True(t, result.Success)
}

func TestRTR_PermanentTerminationCartesianProduct(t *testing.T) {
	cache := newFakeCache()
	cache.byIMPI["bob@example.com"] = &domain.IMSSubscription{
		PrivateID: "bob@example.com",
		IRSs: []*domain.IRS{
			{DefaultPublicID: "sip:bob@example.com", PublicIDs: []string{"sip:bob@example.com"}},
		},
	}
	router := &fakeRouter{status: http.StatusOK}
	d := &Deps{Cache: cache, Router: router}

	result := d.HandleRegistrationTermination(context.Background(), domain.RegistrationTerminationRequest{
		Reason:               domain.ReasonPermanentTermination,
		IMPI:                 "bob@example.com",
		AssociatedIdentities: []string{"bob2@example.com"},
	}, "trail-1")

	require.True(t, result.Success)
	assert.False(t, router.lastSendNotifications)
	require.Len(t, router.lastRegistrations, 2)
	for _, reg := range router.lastRegistrations {
		assert.Equal(t, "sip:bob@example.com", reg.PrimaryIMPU)
		assert.NotEmpty(t, reg.IMPI)
	}
	assert.Len(t, cache.deletedIRSs, 1)
}

func TestRTR_RemoveSCSCFSendsNotificationsAndOmitsIMPI(t *testing.T) {
	cache := newFakeCache()
	cache.byIMPU["sip:bob@example.com"] = &domain.IRS{
		DefaultPublicID: "sip:bob@example.com",
		PublicIDs:       []string{"sip:bob@example.com"},
	}
	router := &fakeRouter{status: http.StatusOK}
	d := &Deps{Cache: cache, Router: router}

	result := d.HandleRegistrationTermination(context.Background(), domain.RegistrationTerminationRequest{
		Reason: domain.ReasonRemoveSCSCF,
		IMPI:   "bob@example.com",
		IMPUs:  []string{"sip:bob@example.com"},
	}, "trail-1")

	require.True(t, result.Success)
	assert.True(t, router.lastSendNotifications)
	require.Len(t, router.lastRegistrations, 1)
	assert.Equal(t, "sip:bob@example.com", router.lastRegistrations[0].PrimaryIMPU)
	assert.Empty(t, router.lastRegistrations[0].IMPI)
}

func TestRTR_RouterRejectionMapsToFailure(t *testing.T) {
	cache := newFakeCache()
	cache.byIMPI["bob@example.com"] = &domain.IMSSubscription{
		IRSs: []*domain.IRS{{DefaultPublicID: "sip:bob@example.com"}},
	}
	router := &fakeRouter{status: http.StatusInternalServerError}
	d := &Deps{Cache: cache, Router: router}

	result := d.HandleRegistrationTermination(context.Background(), domain.RegistrationTerminationRequest{
		Reason: domain.ReasonPermanentTermination,
		IMPI:   "bob@example.com",
	}, "trail-1")

	assert.False(t, result.Success)
}

func TestRTR_CacheReadFailureMapsToFailure(t *testing.T) {
	cache := newFakeCache()
	cache.getIMPIsErr = errors.New("boom")
	d := &Deps{Cache: cache, Router: &fakeRouter{status: http.StatusOK}}

	result := d.HandleRegistrationTermination(context.Background(), domain.RegistrationTerminationRequest{
		Reason: domain.ReasonPermanentTermination,
		IMPI:   "bob@example.com",
	}, "trail-1")

	assert.False(t, result.Success)
}

func TestPPR_NoChangeIsSuccess(t *testing.T) {
	d := &Deps{Cache: newFakeCache()}
	result := d.HandlePushProfile(context.Background(), domain.PushProfileRequest{IMPI: "bob@example.com"})

	assert.True(t, result.Success)
}

func TestPPR_DefaultIdentityChangeRejected(t *testing.T) {
	cache := newFakeCache()
	cache.byIMPI["bob@example.com"] = &domain.IMSSubscription{
		IRSs: []*domain.IRS{{DefaultPublicID: "sip:bob@example.com"}},
	}
	d := &Deps{Cache: cache}

	newXML := "<IMSSubscription><ServiceProfile><PublicIdentity><Identity>sip:new@example.com</Identity></PublicIdentity></ServiceProfile></IMSSubscription>"
	result := d.HandlePushProfile(context.Background(), domain.PushProfileRequest{
		IMPI:            "bob@example.com",
		SubscriptionXML: newXML,
	})

	assert.False(t, result.Success)
}

func TestPPR_XMLReplacedOnMatchingIRS(t *testing.T) {
	cache := newFakeCache()
	irs := &domain.IRS{DefaultPublicID: "sip:bob@example.com"}
	cache.byIMPI["bob@example.com"] = &domain.IMSSubscription{IRSs: []*domain.IRS{irs}}
	d := &Deps{Cache: cache}

	newXML := "<IMSSubscription><ServiceProfile><PublicIdentity><Identity>sip:bob@example.com</Identity></PublicIdentity></ServiceProfile></IMSSubscription>"
	result := d.HandlePushProfile(context.Background(), domain.PushProfileRequest{
		IMPI:            "bob@example.com",
		SubscriptionXML: newXML,
	})

	require.True(t, result.Success)
	assert.Equal(t, newXML, irs.SubscriptionXML)
	require.NotNil(t, cache.putSub)
}

func TestPPR_ChargingOnlyAppliesToAllIRSs(t *testing.T) {
	cache := newFakeCache()
	irs1 := &domain.IRS{DefaultPublicID: "sip:a@example.com"}
	irs2 := &domain.IRS{DefaultPublicID: "sip:b@example.com"}
	cache.byIMPI["bob@example.com"] = &domain.IMSSubscription{IRSs: []*domain.IRS{irs1, irs2}}
	d := &Deps{Cache: cache}

	charging := domain.ChargingAddresses{CCFs: []string{"ccf1"}}
	result := d.HandlePushProfile(context.Background(), domain.PushProfileRequest{
		IMPI:        "bob@example.com",
		HasCharging: true,
		Charging:    charging,
	})

	require.True(t, result.Success)
	assert.True(t, irs1.Charging.Equal(charging))
	assert.True(t, irs2.Charging.Equal(charging))
}

func TestPPR_SubscriptionNotFound(t *testing.T) {
	d := &Deps{Cache: newFakeCache()}
	result := d.HandlePushProfile(context.Background(), domain.PushProfileRequest{
		IMPI:            "nobody@example.com",
		SubscriptionXML: "<IMSSubscription></IMSSubscription>",
	})

	assert.False(t, result.Success)
}
