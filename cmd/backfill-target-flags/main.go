package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/appctx"
	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/targets"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recomputes historical achievement flags from stored sales, for businesses
// that configured targets after they already had data. Inserting through the
// same append-only flag store keeps the run safe to repeat.
func main() {
	businessID := flag.String("business-id", "", "Optional: backfill only one business. If empty, backfills all businesses.")
	from := flag.String("from", "", "Start date (YYYY-MM-DD). Required.")
	to := flag.String("to", "", "Optional: end date (YYYY-MM-DD). Defaults to today in business timezone.")
	flag.Parse()

	if strings.TrimSpace(*from) == "" {
		fmt.Fprintln(os.Stderr, "-from is required (YYYY-MM-DD)")
		os.Exit(1)
	}

	ctx := appctx.Set(context.Background(), appctx.ContextKeySkipTenantScope, true)
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	var businesses []models.Business
	bizQuery := db.WithContext(ctx).Model(&models.Business{})
	if strings.TrimSpace(*businessID) != "" {
		bizQuery = bizQuery.Where("id = ?", strings.TrimSpace(*businessID))
	}
	if err := bizQuery.Find(&businesses).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to list businesses: %v\n", err)
		os.Exit(1)
	}
	if len(businesses) == 0 {
		fmt.Fprintln(os.Stderr, "no businesses found to backfill")
		return
	}

	flagStore := targets.NewGormFlagStore(db)
	redisLock := config.GetRedisLock()

	for _, b := range businesses {
		bid := b.ID.String()
		tz := strings.TrimSpace(b.Timezone)
		if tz == "" {
			tz = "Asia/Yangon"
		}

		// Serialize per business so a concurrently running backfill does not
		// double-scan the same sales range.
		if redisLock != nil {
			lock, err := redisLock.Obtain(ctx, "backfill:targets:"+bid, 5*time.Minute, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "business %s: could not obtain lock, skipping: %v\n", bid, err)
				continue
			}
			defer func() { _ = lock.Release(ctx) }()
		}

		cfg, err := models.GetTargetConfig(ctx, bid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "business %s: no target config, skipping\n", bid)
			continue
		}

		start, err := time.Parse("2006-01-02", strings.TrimSpace(*from))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -from date: %v\n", err)
			os.Exit(1)
		}
		end := time.Now()
		if strings.TrimSpace(*to) != "" {
			end, err = time.Parse("2006-01-02", strings.TrimSpace(*to))
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid -to date: %v\n", err)
				os.Exit(1)
			}
		}

		bizCtx := utils.SetBusinessIdInContext(ctx, bid)
		fmt.Printf("Backfilling target flags business=%s from=%s to=%s\n",
			bid, start.Format("2006-01-02"), end.Format("2006-01-02"))

		daily, monthly := 0, 0
		if cfg.DailyTarget.IsPositive() {
			daily = backfillDaily(bizCtx, db, flagStore, bid, tz, cfg.DailyTarget, start, end)
		}
		if cfg.MonthlyTarget.IsPositive() {
			monthly = backfillMonthly(bizCtx, db, flagStore, bid, tz, cfg.MonthlyTarget, start, end)
		}
		fmt.Printf("business=%s daily_flags=%d monthly_flags=%d\n", bid, daily, monthly)
	}

	fmt.Println("Backfill complete")
}

func backfillDaily(ctx context.Context, db *gorm.DB, flagStore *targets.GormFlagStore, businessId, tz string, target decimal.Decimal, start, end time.Time) int {
	created := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		total, err := sumSales(ctx, db, businessId, day, day.AddDate(0, 0, 1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "business %s day %s: %v\n", businessId, day.Format("2006-01-02"), err)
			continue
		}
		if total.LessThan(target) {
			continue
		}
		newly, err := flagStore.Set(ctx, businessId, "daily", utils.DailyPeriodKey(day, tz))
		if err != nil {
			fmt.Fprintf(os.Stderr, "business %s day %s: %v\n", businessId, day.Format("2006-01-02"), err)
			continue
		}
		if newly {
			created++
		}
	}
	return created
}

func backfillMonthly(ctx context.Context, db *gorm.DB, flagStore *targets.GormFlagStore, businessId, tz string, target decimal.Decimal, start, end time.Time) int {
	created := 0
	month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	for ; !month.After(end); month = month.AddDate(0, 1, 0) {
		total, err := sumSales(ctx, db, businessId, month, month.AddDate(0, 1, 0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "business %s month %s: %v\n", businessId, month.Format("2006-01"), err)
			continue
		}
		if total.LessThan(target) {
			continue
		}
		newly, err := flagStore.Set(ctx, businessId, "monthly", utils.MonthlyPeriodKey(month, tz))
		if err != nil {
			fmt.Fprintf(os.Stderr, "business %s month %s: %v\n", businessId, month.Format("2006-01"), err)
			continue
		}
		if newly {
			created++
		}
	}
	return created
}

func sumSales(ctx context.Context, db *gorm.DB, businessId string, from, until time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0)").
		Where("business_id = ? AND date >= ? AND date < ?", businessId, from, until).
		Scan(&total).Error
	return total, err
}
