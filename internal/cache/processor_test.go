package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

// fakeBackend is an in-memory Backend for processor tests.
type fakeBackend struct {
	mu    sync.Mutex
	irss  map[string]*domain.IRS
	index map[string][]string

	getErr error
	putErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		irss:  make(map[string]*domain.IRS),
		index: make(map[string][]string),
	}
}

func (b *fakeBackend) Get(ctx context.Context, impu string) (*domain.IRS, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	irs, ok := b.irss[impu]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return irs, nil
}

func (b *fakeBackend) Put(ctx context.Context, irs *domain.IRS) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	for _, impu := range irs.PublicIDs {
		b.irss[impu] = irs
	}
	return nil
}

func (b *fakeBackend) Delete(ctx context.Context, irs *domain.IRS) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, impu := range irs.PublicIDs {
		delete(b.irss, impu)
	}
	return nil
}

func (b *fakeBackend) IMPUsForIMPI(ctx context.Context, impi string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.index[impi]...), nil
}

func (b *fakeBackend) PutIndex(ctx context.Context, impi, impu string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.index[impi] {
		if existing == impu {
			return nil
		}
	}
	b.index[impi] = append(b.index[impi], impu)
	return nil
}

func (b *fakeBackend) DeleteIndex(ctx context.Context, impi, impu string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.index[impi][:0]
	for _, existing := range b.index[impi] {
		if existing != impu {
			out = append(out, existing)
		}
	}
	b.index[impi] = out
	return nil
}

func newTestProcessor(backend Backend) *Processor {
	return NewProcessor(backend, ProcessorConfig{WorkerCount: 2, QueueDepth: 16}, nil, nil)
}

func TestProcessor_PutThenGetIRS(t *testing.T) {
	backend := newFakeBackend()
	p := newTestProcessor(backend)
	defer p.Close()

	ctx := context.Background()
	irs := p.CreateIRS()
	irs.DefaultPublicID = "sip:alice@example.com"
	irs.PublicIDs = []string{"sip:alice@example.com"}
	irs.AssociatedPrivateIDs = []string{"alice@example.com"}

	handle, err := p.PutIRS(ctx, irs)
	require.NoError(t, err)

	require.NoError(t, handle.WaitProgress(ctx))
	require.NoError(t, handle.WaitDone(ctx))

	got, err := p.GetIRSForIMPU(ctx, "sip:alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, irs.DefaultPublicID, got.DefaultPublicID)

	impus, err := backend.IMPUsForIMPI(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"sip:alice@example.com"}, impus)
}

func TestProcessor_GetIRSForIMPU_NotFound(t *testing.T) {
	p := newTestProcessor(newFakeBackend())
	defer p.Close()

	_, err := p.GetIRSForIMPU(context.Background(), "sip:nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessor_GetIRSForIMPIs_DeduplicatesAcrossIMPIs(t *testing.T) {
	backend := newFakeBackend()
	p := newTestProcessor(backend)
	defer p.Close()
	ctx := context.Background()

	irs := &domain.IRS{
		DefaultPublicID:      "sip:shared@example.com",
		PublicIDs:            []string{"sip:shared@example.com"},
		AssociatedPrivateIDs: []string{"impi1", "impi2"},
		State:                domain.RegistrationStateRegistered,
	}
	handle, err := p.PutIRS(ctx, irs)
	require.NoError(t, err)
	require.NoError(t, handle.WaitDone(ctx))

	irss, err := p.GetIRSForIMPIs(ctx, []string{"impi1", "impi2"})
	require.NoError(t, err)
	assert.Len(t, irss, 1)
}

func TestProcessor_DeleteIRS(t *testing.T) {
	backend := newFakeBackend()
	p := newTestProcessor(backend)
	defer p.Close()
	ctx := context.Background()

	irs := &domain.IRS{
		DefaultPublicID:      "sip:bob@example.com",
		PublicIDs:            []string{"sip:bob@example.com"},
		AssociatedPrivateIDs: []string{"bob@example.com"},
	}
	h, err := p.PutIRS(ctx, irs)
	require.NoError(t, err)
	require.NoError(t, h.WaitDone(ctx))

	h, err = p.DeleteIRS(ctx, irs)
	require.NoError(t, err)
	require.NoError(t, h.WaitProgress(ctx))
	require.NoError(t, h.WaitDone(ctx))

	_, err = p.GetIRSForIMPU(ctx, "sip:bob@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	impus, err := backend.IMPUsForIMPI(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, impus)
}

func TestProcessor_PutIMSSubscription_WritesOnlyDirtyMembers(t *testing.T) {
	backend := newFakeBackend()
	p := newTestProcessor(backend)
	defer p.Close()
	ctx := context.Background()

	clean := &domain.IRS{DefaultPublicID: "sip:clean@example.com", PublicIDs: []string{"sip:clean@example.com"}}
	dirty := &domain.IRS{DefaultPublicID: "sip:dirty@example.com", PublicIDs: []string{"sip:dirty@example.com"}, Dirty: true}
	sub := &domain.IMSSubscription{PrivateID: "impi", IRSs: []*domain.IRS{clean, dirty}}

	h, err := p.PutIMSSubscription(ctx, sub)
	require.NoError(t, err)
	require.NoError(t, h.WaitDone(ctx))

	_, err = backend.Get(ctx, "sip:clean@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := backend.Get(ctx, "sip:dirty@example.com")
	require.NoError(t, err)
	assert.Equal(t, dirty.DefaultPublicID, got.DefaultPublicID)
}

func TestProcessor_ContextCancelledBeforeSubmit(t *testing.T) {
	p := newTestProcessor(newFakeBackend())
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.GetIRSForIMPU(ctx, "sip:anyone@example.com")
	assert.Error(t, err)
}

func TestProcessor_PutIRSSignalsProgressBeforeDone(t *testing.T) {
	backend := newFakeBackend()
	p := newTestProcessor(backend)
	defer p.Close()
	ctx := context.Background()

	irs := &domain.IRS{
		DefaultPublicID:      "sip:carol@example.com",
		PublicIDs:            []string{"sip:carol@example.com"},
		AssociatedPrivateIDs: []string{"carol@example.com"},
	}
	h, err := p.PutIRS(ctx, irs)
	require.NoError(t, err)

	progressDeadline, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, h.WaitProgress(progressDeadline))

	doneDeadline, cancel2 := context.WithTimeout(ctx, time.Second)
	defer cancel2()
	require.NoError(t, h.WaitDone(doneDeadline))
}
