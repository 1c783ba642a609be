package reports

import (
	"context"
	"sync"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/sirupsen/logrus"
)

// RemoteGenerator is the remote report service surface. reportsync.Client
// implements it over HTTP.
type RemoteGenerator interface {
	Generate(ctx context.Context, kind models.ReportKind, businessId string, dr DateRange) (*ReportResult, error)
}

type scopeKey struct {
	businessId string
	kind       models.ReportKind
}

// Dispatcher routes generation requests remote-first with local fallback and
// keeps one "current" result per (business, kind). Concurrent calls for the
// same scope race by issuance order: only the most recently issued call's
// result is adopted, results of earlier calls that resolve later are
// discarded on arrival.
type Dispatcher struct {
	remote RemoteGenerator
	local  *LocalAggregator
	logger *logrus.Logger

	mu      sync.Mutex
	issued  map[scopeKey]uint64
	current map[scopeKey]*ReportResult
}

func NewDispatcher(remote RemoteGenerator, local *LocalAggregator, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Dispatcher{
		remote:  remote,
		local:   local,
		logger:  logger,
		issued:  map[scopeKey]uint64{},
		current: map[scopeKey]*ReportResult{},
	}
}

// Generate produces a report for one business scope. A missing business id is
// fatal and never retried. A remote transport failure is recovered by local
// recomputation and only surfaces if the local path fails too. Superseded
// calls get ErrSuperseded and their results are never adopted.
func (d *Dispatcher) Generate(ctx context.Context, kind models.ReportKind, businessId string, dr DateRange) (*ReportResult, error) {
	if businessId == "" {
		return nil, ErrScopeMissing
	}

	key := scopeKey{businessId: businessId, kind: kind}
	d.mu.Lock()
	d.issued[key]++
	seq := d.issued[key]
	d.mu.Unlock()

	res, err := d.run(ctx, kind, businessId, dr)
	if err != nil {
		return nil, err
	}
	return d.adopt(key, seq, res)
}

func (d *Dispatcher) run(ctx context.Context, kind models.ReportKind, businessId string, dr DateRange) (*ReportResult, error) {
	if d.remote != nil && !config.RemoteReportsDisabled() {
		res, err := d.remote.Generate(ctx, kind, businessId, dr)
		if err == nil {
			return res, nil
		}
		if !IsTransport(err) {
			return nil, err
		}
		config.LogWarn(d.logger, "reports", "Generate", "remote aggregation unreachable, recomputing locally", map[string]any{
			"businessId": businessId,
			"kind":       kind,
		}, err)
	}
	return d.local.Aggregate(ctx, kind, businessId, dr)
}

// adopt installs a result as current unless a later call for the same scope
// was issued while this one was in flight. GeneratedAt of adopted results
// never goes backwards for a scope.
func (d *Dispatcher) adopt(key scopeKey, seq uint64, res *ReportResult) (*ReportResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.issued[key] != seq {
		return nil, ErrSuperseded
	}
	if prev, ok := d.current[key]; ok && res.GeneratedAt.Before(prev.GeneratedAt) {
		res.GeneratedAt = prev.GeneratedAt
	}
	d.current[key] = res
	return res, nil
}

// Current returns the last adopted result for a scope, if any.
func (d *Dispatcher) Current(businessId string, kind models.ReportKind) (*ReportResult, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res, ok := d.current[scopeKey{businessId: businessId, kind: kind}]
	return res, ok
}
