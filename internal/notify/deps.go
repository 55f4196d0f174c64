// Package notify implements C4, the two HSS-initiated tasks (§4.4):
// Registration Termination (rtr.go) and Push Profile (ppr.go). Both are
// triggered by the HSS rather than a router request, so there is no HTTP
// surface here — a production binary's Diameter transport layer calls
// HandleRegistrationTermination or HandlePushProfile and turns the result
// into an RTA/PPA, per spec.md §9's "binary
// transport boundary" note.
package notify

import (
	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/metrics"
)

// Deps bundles the collaborators shared by both HSS-initiated tasks.
type Deps struct {
	Cache   domain.CacheProcessor
	Router  domain.RouterNotifier
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
