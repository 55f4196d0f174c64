package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/metrics"
)

// ProcessorConfig configures the worker pool a Processor runs its Backend
// calls through (§4.1: "serialises every operation through a bounded
// worker pool, FIFO").
type ProcessorConfig struct {
	// WorkerCount is the number of goroutines draining the job queue.
	WorkerCount int

	// QueueDepth bounds how many submitted calls may be waiting for a
	// free worker before submit blocks.
	QueueDepth int
}

// DefaultProcessorConfig returns the defaults used when cfg is the zero
// value.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{WorkerCount: 8, QueueDepth: 256}
}

// Processor is C1: the asynchronous cache access processor (§4.1). It
// implements domain.CacheProcessor by serialising every Backend call
// through a bounded pool of worker goroutines, preserving submission
// order per worker and bounding total in-flight backend work.
type Processor struct {
	backend Backend
	cfg     ProcessorConfig
	logger  *zap.Logger
	metrics *metrics.Metrics

	jobs   chan func()
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewProcessor starts cfg.WorkerCount workers and returns a ready
// Processor. Call Close to drain and stop them.
func NewProcessor(backend Backend, cfg ProcessorConfig, logger *zap.Logger, m *metrics.Metrics) *Processor {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultProcessorConfig().WorkerCount
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultProcessorConfig().QueueDepth
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Processor{
		backend: backend,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		jobs:    make(chan func(), cfg.QueueDepth),
		cancel:  cancel,
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	return p
}

// Close stops accepting new work and waits for in-flight jobs to drain.
func (p *Processor) Close() {
	p.cancel()
	close(p.jobs)
	p.wg.Wait()
}

func (p *Processor) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job()
		case <-ctx.Done():
			return
		}
	}
}

// submit enqueues job, blocking until a slot is free or ctx is cancelled.
func (p *Processor) submit(ctx context.Context, job func()) error {
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Processor) observe(op string, start time.Time, err error) {
	if p.metrics != nil {
		p.metrics.ObserveCacheOp(op, start, err)
	}
}

// GetIRSForIMPU looks up the IRS stored under impu.
func (p *Processor) GetIRSForIMPU(ctx context.Context, impu string) (*domain.IRS, error) {
	type result struct {
		irs *domain.IRS
		err error
	}
	resCh := make(chan result, 1)
	err := p.submit(ctx, func() {
		start := time.Now()
		irs, err := p.backend.Get(ctx, impu)
		p.observe("get_irs", start, err)
		resCh <- result{irs, err}
	})
	if err != nil {
		return nil, err
	}
	select {
	case r := <-resCh:
		return r.irs, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetIRSForIMPIs assembles the union of IRSs reachable from any of impis
// via the secondary index, deduplicated by DefaultPublicID.
func (p *Processor) GetIRSForIMPIs(ctx context.Context, impis []string) ([]*domain.IRS, error) {
	type result struct {
		irss []*domain.IRS
		err  error
	}
	resCh := make(chan result, 1)
	err := p.submit(ctx, func() {
		start := time.Now()
		seen := make(map[string]bool)
		seenDefault := make(map[string]bool)
		var out []*domain.IRS
		for _, impi := range impis {
			impus, err := p.backend.IMPUsForIMPI(ctx, impi)
			if err != nil {
				p.observe("get_irs_for_impis", start, err)
				resCh <- result{nil, err}
				return
			}
			for _, impu := range impus {
				if seen[impu] {
					continue
				}
				irs, err := p.backend.Get(ctx, impu)
				if err != nil {
					p.observe("get_irs_for_impis", start, err)
					resCh <- result{nil, err}
					return
				}
				seen[impu] = true
				if irs.DefaultPublicID != "" {
					if seenDefault[irs.DefaultPublicID] {
						continue
					}
					seenDefault[irs.DefaultPublicID] = true
				}
				out = append(out, irs)
			}
		}
		p.observe("get_irs_for_impis", start, nil)
		resCh <- result{out, nil}
	})
	if err != nil {
		return nil, err
	}
	select {
	case r := <-resCh:
		return r.irss, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetIRSForIMPUs looks up one IRS per impu, in order.
func (p *Processor) GetIRSForIMPUs(ctx context.Context, impus []string) ([]*domain.IRS, error) {
	type result struct {
		irss []*domain.IRS
		err  error
	}
	resCh := make(chan result, 1)
	err := p.submit(ctx, func() {
		start := time.Now()
		out := make([]*domain.IRS, 0, len(impus))
		for _, impu := range impus {
			irs, err := p.backend.Get(ctx, impu)
			if err != nil {
				p.observe("get_irs_for_impus", start, err)
				resCh <- result{nil, err}
				return
			}
			out = append(out, irs)
		}
		p.observe("get_irs_for_impus", start, nil)
		resCh <- result{out, nil}
	})
	if err != nil {
		return nil, err
	}
	select {
	case r := <-resCh:
		return r.irss, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetIMSSubscription assembles the full subscription owned by impi.
func (p *Processor) GetIMSSubscription(ctx context.Context, impi string) (*domain.IMSSubscription, error) {
	type result struct {
		sub *domain.IMSSubscription
		err error
	}
	resCh := make(chan result, 1)
	err := p.submit(ctx, func() {
		start := time.Now()
		impus, err := p.backend.IMPUsForIMPI(ctx, impi)
		if err != nil {
			p.observe("get_ims_subscription", start, err)
			resCh <- result{nil, err}
			return
		}
		sub := &domain.IMSSubscription{PrivateID: impi}
		for _, impu := range impus {
			irs, err := p.backend.Get(ctx, impu)
			if err != nil {
				p.observe("get_ims_subscription", start, err)
				resCh <- result{nil, err}
				return
			}
			sub.IRSs = append(sub.IRSs, irs)
		}
		p.observe("get_ims_subscription", start, nil)
		resCh <- result{sub, nil}
	})
	if err != nil {
		return nil, err
	}
	select {
	case r := <-resCh:
		return r.sub, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CreateIRS is the synchronous create_irs() factory (§4.1) — no backend
// round trip.
func (p *Processor) CreateIRS() *domain.IRS {
	return domain.NewEmptyIRS()
}

// PutIRS stores irs, signalling the returned handle's progress phase once
// the primary write lands and its done phase once every
// AssociatedPrivateIDs secondary-index entry has been updated.
func (p *Processor) PutIRS(ctx context.Context, irs *domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	bg := context.Background()
	err := p.submit(ctx, func() {
		start := time.Now()
		if err := p.backend.Put(bg, irs); err != nil {
			p.observe("put_irs", start, err)
			h.ResolveProgress(err)
			h.ResolveDone(err)
			return
		}
		p.observe("put_irs", start, nil)
		h.ResolveProgress(nil)

		idxStart := time.Now()
		var idxErr error
		for _, impi := range irs.AssociatedPrivateIDs {
			for _, impu := range irs.PublicIDs {
				if err := p.backend.PutIndex(bg, impi, impu); err != nil {
					idxErr = fmt.Errorf("put_irs: index %s/%s: %w", impi, impu, err)
				}
			}
		}
		p.observe("put_irs_index", idxStart, idxErr)
		h.ResolveDone(idxErr)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteIRS removes irs's entries and the secondary-index rows for every
// private identity associated with it.
func (p *Processor) DeleteIRS(ctx context.Context, irs *domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	bg := context.Background()
	err := p.submit(ctx, func() {
		start := time.Now()
		if err := p.backend.Delete(bg, irs); err != nil {
			p.observe("delete_irs", start, err)
			h.ResolveProgress(err)
			h.ResolveDone(err)
			return
		}
		p.observe("delete_irs", start, nil)
		h.ResolveProgress(nil)

		idxStart := time.Now()
		var idxErr error
		for _, impi := range irs.AssociatedPrivateIDs {
			for _, impu := range irs.PublicIDs {
				if err := p.backend.DeleteIndex(bg, impi, impu); err != nil {
					idxErr = fmt.Errorf("delete_irs: index %s/%s: %w", impi, impu, err)
				}
			}
		}
		p.observe("delete_irs_index", idxStart, idxErr)
		h.ResolveDone(idxErr)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteIRSMany removes every IRS in irss as one logical mutation: the
// progress phase fires once all primary deletes have landed, the done
// phase once every secondary-index row has been cleaned up.
func (p *Processor) DeleteIRSMany(ctx context.Context, irss []*domain.IRS) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	bg := context.Background()
	err := p.submit(ctx, func() {
		start := time.Now()
		var progErr error
		for _, irs := range irss {
			if err := p.backend.Delete(bg, irs); err != nil {
				progErr = fmt.Errorf("delete_irs_many: %w", err)
			}
		}
		p.observe("delete_irs_many", start, progErr)
		h.ResolveProgress(progErr)

		idxStart := time.Now()
		var idxErr error
		for _, irs := range irss {
			for _, impi := range irs.AssociatedPrivateIDs {
				for _, impu := range irs.PublicIDs {
					if err := p.backend.DeleteIndex(bg, impi, impu); err != nil {
						idxErr = fmt.Errorf("delete_irs_many: index %s/%s: %w", impi, impu, err)
					}
				}
			}
		}
		p.observe("delete_irs_many_index", idxStart, idxErr)
		h.ResolveDone(idxErr)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// PutIMSSubscription persists only the dirty member IRSs of sub, per
// §4.1's "put_ims_subscription writes only dirty members".
func (p *Processor) PutIMSSubscription(ctx context.Context, sub *domain.IMSSubscription) (*domain.MutationHandle, error) {
	h := domain.NewMutationHandle()
	bg := context.Background()
	err := p.submit(ctx, func() {
		start := time.Now()
		dirty := sub.DirtyIRSs()
		var progErr error
		for _, irs := range dirty {
			if err := p.backend.Put(bg, irs); err != nil {
				progErr = fmt.Errorf("put_ims_subscription: %w", err)
			}
		}
		p.observe("put_ims_subscription", start, progErr)
		h.ResolveProgress(progErr)

		idxStart := time.Now()
		var idxErr error
		for _, irs := range dirty {
			for _, impi := range irs.AssociatedPrivateIDs {
				for _, impu := range irs.PublicIDs {
					if err := p.backend.PutIndex(bg, impi, impu); err != nil {
						idxErr = fmt.Errorf("put_ims_subscription: index %s/%s: %w", impi, impu, err)
					}
				}
			}
		}
		p.observe("put_ims_subscription_index", idxStart, idxErr)
		h.ResolveDone(idxErr)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

var _ domain.CacheProcessor = (*Processor)(nil)
