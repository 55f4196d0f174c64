// Package metrics holds the Prometheus collectors shared across the cache
// processor, HSS connection and router-facing tasks (§4, SUPPLEMENTED
// FEATURES #2/#5).
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the process-wide collector set, constructed once in
// cmd/server/main.go and threaded by reference.
type Metrics struct {
	CxRequestsTotal  *prometheus.CounterVec
	CacheOpsTotal    *prometheus.CounterVec
	CacheOpDuration  *prometheus.HistogramVec
	HSSLatency       *prometheus.HistogramVec
	TaskOutcomeTotal *prometheus.CounterVec
	PenaltyCount     prometheus.Gauge

	// penaltyWindow counts penalties since the last PenaltySnapshot call.
	// internal/middleware's overload shedding is the only reader.
	penaltyWindow int64
}

// New constructs a Metrics with every collector registered.
func New() *Metrics {
	m := &Metrics{
		CxRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cx_hss_requests_total",
			Help: "Cx requests sent to the HSS, by message type and outcome.",
		}, []string{"message_type", "outcome"}),

		CacheOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cx_cache_ops_total",
			Help: "Cache processor operations, by kind and result.",
		}, []string{"op", "result"}),

		CacheOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cx_cache_op_duration_seconds",
			Help:    "Cache backend operation latency, by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		HSSLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cx_hss_latency_seconds",
			Help:    "HSS round-trip latency, by message type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"message_type"}),

		TaskOutcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cx_task_outcomes_total",
			Help: "Router-facing task completions, by task and HTTP status class.",
		}, []string{"task", "status_class"}),

		PenaltyCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cx_overload_penalties_current",
			Help: "Overload penalties recorded for HSS timeouts.",
		}),
	}
	prometheus.MustRegister(
		m.CxRequestsTotal,
		m.CacheOpsTotal,
		m.CacheOpDuration,
		m.HSSLatency,
		m.TaskOutcomeTotal,
		m.PenaltyCount,
	)
	return m
}

// ObserveCacheOp records the outcome and latency of a single cache backend
// call.
func (m *Metrics) ObserveCacheOp(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CacheOpsTotal.WithLabelValues(op, result).Inc()
	m.CacheOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveHSS records the outcome and latency of a single Cx message.
func (m *Metrics) ObserveHSS(messageType string, outcome string, start time.Time) {
	m.CxRequestsTotal.WithLabelValues(messageType, outcome).Inc()
	m.HSSLatency.WithLabelValues(messageType).Observe(time.Since(start).Seconds())
}

// ObserveTask records a router-facing task's completion status class, e.g.
// "2xx", "4xx", "5xx".
func (m *Metrics) ObserveTask(task, statusClass string) {
	m.TaskOutcomeTotal.WithLabelValues(task, statusClass).Inc()
}

// RecordPenalty bumps the overload-penalty gauge once, per §7's "exactly
// one penalty is recorded per request whose HSS round-trip yielded
// TIMEOUT" invariant.
func (m *Metrics) RecordPenalty() {
	m.PenaltyCount.Inc()
	atomic.AddInt64(&m.penaltyWindow, 1)
}

// PenaltySnapshot returns the number of penalties recorded since the last
// call and resets the window. internal/middleware's overload shedding polls
// this once per tick instead of holding its own counter.
func (m *Metrics) PenaltySnapshot() int64 {
	return atomic.SwapInt64(&m.penaltyWindow, 0)
}

// ObserveNotify records an HSS-initiated RTR/PPR outcome. These share
// CxRequestsTotal with the outbound MAR/UAR/LIR/SAR counters (SUPPLEMENTED
// FEATURES #2) but carry no round-trip latency, since the HSS is the
// caller here rather than the callee.
func (m *Metrics) ObserveNotify(messageType string, outcome string) {
	m.CxRequestsTotal.WithLabelValues(messageType, outcome).Inc()
}
