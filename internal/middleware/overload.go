package middleware

import (
	"net/http"
	"sync/atomic"
	"time"
)

// PenaltySource is the penalty window internal/metrics.Metrics exposes.
type PenaltySource interface {
	PenaltySnapshot() int64
}

// OverloadMiddleware sheds load once recent HSS timeouts (§7's "penalty")
// exceed a threshold, the way a Cx gateway protects a struggling HSS from a
// retry storm rather than forwarding every request to it.
type OverloadMiddleware struct {
	threshold int64
	level     int64 // atomic: current decayed penalty level
	stop      chan struct{}
}

// NewOverloadMiddleware starts a background decay loop against source and
// returns the middleware. threshold is the penalty level above which new
// requests are rejected with 503; tick controls how often the level decays
// back toward the latest snapshot.
func NewOverloadMiddleware(source PenaltySource, threshold int64, tick time.Duration) *OverloadMiddleware {
	if tick <= 0 {
		tick = time.Second
	}
	m := &OverloadMiddleware{threshold: threshold, stop: make(chan struct{})}
	go m.decay(source, tick)
	return m
}

func (m *OverloadMiddleware) decay(source PenaltySource, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			current := atomic.LoadInt64(&m.level)
			next := current/2 + source.PenaltySnapshot()
			atomic.StoreInt64(&m.level, next)
		case <-m.stop:
			return
		}
	}
}

// Stop halts the decay loop. Call once at shutdown.
func (m *OverloadMiddleware) Stop() {
	close(m.stop)
}

// Handler is the chi-compatible middleware function.
func (m *OverloadMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt64(&m.level) > m.threshold {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}
