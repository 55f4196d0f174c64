// Package task implements C3, the router-facing task engine (§4.3); the
// HSS-initiated tasks (C4) live in internal/notify. Each task is a method
// on Deps, which bundles its collaborators (domain.CacheProcessor,
// domain.HSSConnection, ...), taking an http.ResponseWriter/*http.Request
// pair;
// the "suspension points" of spec.md §5's callback-chained design collapse
// to ordinary blocking calls, per §9's design notes.
package task

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/metrics"
)

// Config holds the configuration named in §6 that every task consults.
type Config struct {
	Realm                 string
	RecordTTL             int
	HSSReregistrationTime int
	SupportSharedIFCs     bool
	SchemeDigest          string
	SchemeAKAv1           string
	SchemeAKAv2           string
	SchemeUnknown         string
}

// DefaultConfig returns the stock §6 configuration values.
func DefaultConfig() Config {
	return Config{
		RecordTTL:             3600,
		HSSReregistrationTime: 1800,
		SchemeDigest:          "SIP Digest",
		SchemeAKAv1:           "Digest-AKAv1-MD5",
		SchemeAKAv2:           "Digest-AKAv2-SHA-256",
		SchemeUnknown:         "Unknown",
	}
}

// Deps bundles the collaborators shared by every router-facing task.
type Deps struct {
	Cache     domain.CacheProcessor
	HSS       domain.HSSConnection
	Router    domain.RouterNotifier
	Health    domain.HealthChecker
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Validator *validator.Validate
	Config    Config
}

// validate returns d.Validator, lazily building the stock validator if the
// caller didn't set one (tests construct Deps by hand without it).
func (d *Deps) validate() *validator.Validate {
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	return d.Validator
}

func (d *Deps) recordPenalty() {
	if d.Metrics != nil {
		d.Metrics.RecordPenalty()
	}
}

func (d *Deps) observe(task string, statusCode int) {
	if d.Metrics == nil {
		return
	}
	class := "2xx"
	switch {
	case statusCode >= 500:
		class = "5xx"
	case statusCode >= 400:
		class = "4xx"
	case statusCode >= 300:
		class = "3xx"
	}
	d.Metrics.ObserveTask(task, class)
}
