package reportsync

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/appctx"
	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/reports"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/sirupsen/logrus"
)

// Worker re-issues generate calls on an interval for every enabled business.
// Each pass supersedes whatever is still in flight for the same scope, so
// dashboards converge on the freshest result without explicit cancellation.
type Worker struct {
	dispatcher *reports.Dispatcher
	logger     *logrus.Logger
	interval   time.Duration
	kinds      []models.ReportKind
}

func NewWorker(dispatcher *reports.Dispatcher, logger *logrus.Logger) *Worker {
	if logger == nil {
		logger = config.GetLogger()
	}
	interval := 5 * time.Minute
	if v := strings.TrimSpace(os.Getenv("REPORT_REFRESH_INTERVAL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Second
		}
	}
	return &Worker{
		dispatcher: dispatcher,
		logger:     logger,
		interval:   interval,
		kinds:      refreshKinds(),
	}
}

func refreshKinds() []models.ReportKind {
	raw := strings.TrimSpace(os.Getenv("REPORT_REFRESH_KINDS"))
	if raw == "" {
		return []models.ReportKind{
			models.ReportKindTransactionSummary,
			models.ReportKindCashFlow,
			models.ReportKindStockSummary,
		}
	}
	var kinds []models.ReportKind
	for _, part := range strings.Split(raw, ",") {
		kind := models.ReportKind(strings.TrimSpace(part))
		if kind.Valid() {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Start runs refresh passes until the context is cancelled. The first pass is
// delayed by a random fraction of the interval so multiple replicas do not
// hit the remote service in lockstep.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		jitter := time.Duration(rand.Int63n(int64(w.interval)))
		select {
		case <-ctx.Done():
			return
		case <-time.After(jitter):
		}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			w.refreshAll(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (w *Worker) refreshAll(ctx context.Context) {
	scopeCtx := appctx.Set(ctx, appctx.ContextKeySkipTenantScope, true)

	var businessIds []string
	if err := config.GetDB().WithContext(scopeCtx).
		Model(&models.Business{}).
		Pluck("id", &businessIds).Error; err != nil {
		config.LogError(w.logger, "reportsync", "refreshAll", "listing businesses", nil, err)
		return
	}

	for _, businessId := range businessIds {
		if !config.AutoRefreshEnabledFor(businessId) {
			continue
		}
		w.refreshBusiness(ctx, businessId)
	}
}

func (w *Worker) refreshBusiness(ctx context.Context, businessId string) {
	timezone := models.BusinessTimezone(ctx, businessId)
	dr := todayRange(time.Now(), timezone)

	bizCtx := utils.SetBusinessIdInContext(ctx, businessId)
	for _, kind := range w.kinds {
		if _, err := w.dispatcher.Generate(bizCtx, kind, businessId, dr); err != nil {
			if errors.Is(err, reports.ErrSuperseded) {
				continue
			}
			config.LogError(w.logger, "reportsync", "refreshBusiness", "refreshing report", map[string]any{
				"businessId": businessId,
				"kind":       kind,
			}, err)
		}
	}
}

func todayRange(now time.Time, timezone string) reports.DateRange {
	if loc, err := time.LoadLocation(timezone); err == nil && timezone != "" {
		now = now.In(loc)
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return reports.DateRange{From: start, To: now}
}
