package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/middlewares"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/reports"
	"bitbucket.org/mmdatafocus/dashboard_backend/reportsync"
	"bitbucket.org/mmdatafocus/dashboard_backend/targets"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

const defaultPort = "8080"

var tracer = otel.Tracer("dashboard-backend")

// app holds the wired engine. Built after the DB is connected; the readiness
// gate returns 503 until then.
type appDeps struct {
	store      *models.ReportStore
	dispatcher *reports.Dispatcher
	tracker    *targets.Tracker
}

var app *appDeps

func buildApp(logger *logrus.Logger) *appDeps {
	store := models.DefaultReportStore()
	local := reports.NewLocalAggregator(store, logger)

	var remote reports.RemoteGenerator
	client, err := reportsync.NewClient()
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "reportsync"}).
			Warn("remote report service not configured; serving local aggregation only: " + err.Error())
	} else {
		remote = client
	}

	var sink targets.Notifier = targets.NewLogNotifier(logger)
	if os.Getenv("NOTIFICATION_TOPIC") != "" {
		sink = targets.NewPubSubNotifier(logger)
	}

	return &appDeps{
		store:      store,
		dispatcher: reports.NewDispatcher(remote, local, logger),
		tracker:    targets.NewTracker(targets.DefaultGormFlagStore(), targets.NewRedisSessionFlags(), sink, logger),
	}
}

func parseDateRange(c *gin.Context) reports.DateRange {
	var dr reports.DateRange
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		dr.From = parseQueryDate(v, false)
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		dr.To = parseQueryDate(v, true)
	}
	return dr
}

// parseQueryDate accepts RFC3339 or plain dates. A plain "to" date means the
// whole day, so it expands to end of day.
func parseQueryDate(v string, endOfDay bool) time.Time {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		if endOfDay {
			return t.Add(24*time.Hour - time.Nanosecond)
		}
		return t
	}
	return time.Time{}
}

func reportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "generateReport")
		defer span.End()

		businessId, _ := utils.GetBusinessIdFromContext(ctx)
		kind := reports.Normalize(c.Param("key"))
		dr := parseDateRange(c)

		res, err := app.dispatcher.Generate(ctx, kind, businessId, dr)
		if err != nil {
			switch {
			case errors.Is(err, reports.ErrScopeMissing):
				c.JSON(http.StatusBadRequest, gin.H{"error": "business scope is not configured"})
			case errors.Is(err, reports.ErrSuperseded):
				c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
			default:
				config.LogError(config.GetLogger(), "server.go", "reportHandler", "generating report", map[string]any{
					"businessId": businessId,
					"kind":       kind,
				}, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
			}
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func currentReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId, _ := utils.GetBusinessIdFromContext(c.Request.Context())
		kind := reports.Normalize(c.Param("key"))

		res, ok := app.dispatcher.Current(businessId, kind)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report generated yet"})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func transactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		businessId, _ := utils.GetBusinessIdFromContext(ctx)
		dr := parseDateRange(c)

		salesRows, err := app.store.FetchSales(ctx, businessId, dr.From, dr.To)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "loading sales failed"})
			return
		}
		purchaseRows, err := app.store.FetchPurchases(ctx, businessId, dr.From, dr.To)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "loading purchases failed"})
			return
		}

		sales := make([]models.Sale, 0, len(salesRows))
		for _, r := range salesRows {
			sales = append(sales, *r)
		}
		purchases := make([]models.Purchase, 0, len(purchaseRows))
		for _, r := range purchaseRows {
			purchases = append(purchases, *r)
		}

		txns := reports.FilterTransactions(reports.Unify(sales, purchases), c.Query("search"))
		c.JSON(http.StatusOK, gin.H{"transactions": txns, "count": len(txns)})
	}
}

// Pointer fields so "required" means present, and an explicit 0 still
// disables a goal.
type targetConfigRequest struct {
	DailyTarget   *decimal.Decimal `json:"daily_target" binding:"required"`
	MonthlyTarget *decimal.Decimal `json:"monthly_target" binding:"required"`
}

func getTargetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		businessId, _ := utils.GetBusinessIdFromContext(ctx)

		cfg, err := models.GetTargetConfig(ctx, businessId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, models.TargetConfig{BusinessId: businessId})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "loading target config failed"})
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

func putTargetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		businessId, _ := utils.GetBusinessIdFromContext(ctx)

		var req targetConfigRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			}
			return
		}
		if req.DailyTarget.IsNegative() || req.MonthlyTarget.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targets must not be negative"})
			return
		}

		cfg := models.TargetConfig{
			BusinessId:    businessId,
			DailyTarget:   *req.DailyTarget,
			MonthlyTarget: *req.MonthlyTarget,
		}
		if err := config.GetDB().WithContext(ctx).Save(&cfg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "saving target config failed"})
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

func evaluateTargetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		businessId, _ := utils.GetBusinessIdFromContext(ctx)
		sessionId, _ := utils.GetSessionIdFromContext(ctx)

		cfg, err := models.GetTargetConfig(ctx, businessId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"events": []targets.Event{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "loading target config failed"})
			return
		}

		timezone := models.BusinessTimezone(ctx, businessId)
		totals, err := salesTotals(ctx, businessId, timezone)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "loading sales totals failed"})
			return
		}

		events, err := app.tracker.Evaluate(ctx, targets.Evaluation{
			BusinessId: businessId,
			SessionId:  sessionId,
			Timezone:   timezone,
			Goals:      targets.Goals{DailyTarget: cfg.DailyTarget, MonthlyTarget: cfg.MonthlyTarget},
			Totals:     totals,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "target evaluation failed"})
			return
		}
		if events == nil {
			events = []targets.Event{}
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

func salesTotals(ctx context.Context, businessId, timezone string) (targets.Totals, error) {
	now := time.Now()
	if loc, err := time.LoadLocation(timezone); err == nil && timezone != "" {
		now = now.In(loc)
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	monthSales, err := app.store.FetchSales(ctx, businessId, monthStart, now)
	if err != nil {
		return targets.Totals{}, err
	}

	totals := targets.Totals{DailySales: decimal.Zero, MonthlySales: decimal.Zero}
	for _, s := range monthSales {
		totals.MonthlySales = totals.MonthlySales.Add(s.Total)
		if !s.Date.Before(dayStart) {
			totals.DailySales = totals.DailySales.Add(s.Total)
		}
	}
	return totals, nil
}

// customErrorLogger logs requests that finished with gin errors attached.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, app endpoints return 503.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil || app == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist; in development allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "X-Correlation-Id")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api", middlewares.RequireAuth())
	api.GET("/reports/:key", reportHandler())
	api.GET("/reports/current/:key", currentReportHandler())
	api.GET("/transactions", transactionsHandler())
	api.GET("/targets", getTargetsHandler())
	api.PUT("/targets", putTargetsHandler())
	api.POST("/targets/evaluate", evaluateTargetsHandler())
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	app = buildApp(logger)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	reportsync.NewWorker(app.dispatcher, logger).Start(workerCtx)

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop the refresh worker first so it does not issue new generates while
	// we are draining.
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
