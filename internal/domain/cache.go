package domain

import "context"

// MutationHandle is the Go expression of C1's two-phase progress/success
// acknowledgement (§4.1). Progress fires once the write is durable enough
// that the caller may reply to its upstream client; Done fires once all
// background work (secondary indices) has completed. Progress is never
// signalled on failure.
type MutationHandle struct {
	progress chan error
	done     chan error
}

// NewMutationHandle constructs a handle ready for a single progress signal
// and a single done signal.
func NewMutationHandle() *MutationHandle {
	return &MutationHandle{
		progress: make(chan error, 1),
		done:     make(chan error, 1),
	}
}

// ResolveProgress signals the progress phase. Only the processor
// implementation that created the handle should call this.
func (h *MutationHandle) ResolveProgress(err error) {
	h.progress <- err
}

// ResolveDone signals the done phase. Only the processor implementation
// that created the handle should call this.
func (h *MutationHandle) ResolveDone(err error) {
	h.done <- err
}

// WaitProgress blocks until the processor either acknowledges the write as
// durable (nil) or reports that it failed. This is the suspension point a
// task resumes from to send its HTTP reply (§5).
func (h *MutationHandle) WaitProgress(ctx context.Context) error {
	select {
	case err := <-h.progress:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitDone blocks until background work (secondary indices) has completed.
// Callers that only need read-your-writes behaviour may ignore this and let
// it complete asynchronously.
func (h *MutationHandle) WaitDone(ctx context.Context) error {
	select {
	case err := <-h.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CacheProcessor is C1: the asynchronous interface from orchestration tasks
// to the cache (§4.1).
type CacheProcessor interface {
	GetIRSForIMPU(ctx context.Context, impu string) (*IRS, error)
	GetIRSForIMPIs(ctx context.Context, impis []string) ([]*IRS, error)
	GetIRSForIMPUs(ctx context.Context, impus []string) ([]*IRS, error)
	GetIMSSubscription(ctx context.Context, impi string) (*IMSSubscription, error)

	// CreateIRS is the synchronous create_irs() factory — no round trip.
	CreateIRS() *IRS

	PutIRS(ctx context.Context, irs *IRS) (*MutationHandle, error)
	DeleteIRS(ctx context.Context, irs *IRS) (*MutationHandle, error)
	DeleteIRSMany(ctx context.Context, irss []*IRS) (*MutationHandle, error)
	PutIMSSubscription(ctx context.Context, sub *IMSSubscription) (*MutationHandle, error)
}

// RouterRegistration is one element of the router notifier's body (§4.4.1,
// §4.5). IMPI is omitted for the three non-PERMANENT_TERMINATION reasons.
type RouterRegistration struct {
	PrimaryIMPU string `json:"primary-impu"`
	IMPI        string `json:"impi,omitempty"`
}

// RouterNotifier is C5: the single outbound operation used by C4 to
// instruct the router to clear bindings (§4.5).
type RouterNotifier interface {
	DeregisterBindings(ctx context.Context, sendNotifications bool, registrations []RouterRegistration, trail string) (int, error)
}

// HealthChecker receives a liveness signal whenever a router-facing task
// completes a round trip successfully (§4.3.2).
type HealthChecker interface {
	NotifyHealthy()
}
