package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/task"
)

type stubCache struct{}

func (stubCache) GetIRSForIMPU(ctx context.Context, impu string) (*domain.IRS, error) {
	return nil, domain.ErrNotFound
}
func (stubCache) GetIRSForIMPIs(ctx context.Context, impis []string) ([]*domain.IRS, error) {
	return nil, nil
}
func (stubCache) GetIRSForIMPUs(ctx context.Context, impus []string) ([]*domain.IRS, error) {
	return nil, nil
}
func (stubCache) GetIMSSubscription(ctx context.Context, impi string) (*domain.IMSSubscription, error) {
	return nil, domain.ErrNotFound
}
func (stubCache) CreateIRS() *domain.IRS { return domain.NewEmptyIRS() }
func (stubCache) PutIRS(ctx context.Context, irs *domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}
func (stubCache) DeleteIRS(ctx context.Context, irs *domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}
func (stubCache) DeleteIRSMany(ctx context.Context, irss []*domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}
func (stubCache) PutIMSSubscription(ctx context.Context, sub *domain.IMSSubscription) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	h.ResolveProgress(nil)
	h.ResolveDone(nil)
	return h, nil
}

type stubHSS struct{}

func (stubHSS) MultimediaAuth(ctx context.Context, req domain.MultimediaAuthRequest) (*domain.MultimediaAuthAnswer, error) {
	return &domain.MultimediaAuthAnswer{Outcome: domain.OutcomeNotFound}, nil
}
func (stubHSS) UserAuth(ctx context.Context, req domain.UserAuthRequest) (*domain.UserAuthAnswer, error) {
	return &domain.UserAuthAnswer{Outcome: domain.OutcomeNotFound}, nil
}
func (stubHSS) LocationInfo(ctx context.Context, req domain.LocationInfoRequest) (*domain.LocationInfoAnswer, error) {
	return &domain.LocationInfoAnswer{Outcome: domain.OutcomeNotFound}, nil
}
func (stubHSS) ServerAssignment(ctx context.Context, req domain.ServerAssignmentRequest) (*domain.ServerAssignmentAnswer, error) {
	return &domain.ServerAssignmentAnswer{Outcome: domain.OutcomeNotFound}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(&task.Deps{
		Cache:  stubCache{},
		HSS:    stubHSS{},
		Config: task.DefaultConfig(),
	})
}

func TestRouter_Ping(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_DigestRoute(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/impi/bob@example.com/digest?public_id=sip:bob@example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RegistrationStatusRoute(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/impi/bob@example.com/registration-status?impu=sip:bob@example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_LocationRoute(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/impu/sip:bob@example.com/location", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RegDataGetNotFound(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/impu/sip:bob@example.com/reg-data", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RegDataReadonlyGetNotFound(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/impu/sip:bob@example.com/reg-data-readonly", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UnknownPathIs404(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
