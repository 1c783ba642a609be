package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/dashboard_backend/appctx"
	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bootstraps one business with an admin user and sales targets, then prints a
// signed token for that user. Meant for local setups and demo environments.
func main() {
	name := flag.String("business-name", "", "Business display name. Required.")
	username := flag.String("username", "", "Admin username. Required.")
	password := flag.String("password", "", "Admin password. Required.")
	timezone := flag.String("timezone", "Asia/Yangon", "IANA timezone for the business.")
	dailyTarget := flag.String("daily-target", "0", "Daily sales target (0 disables daily tracking).")
	monthlyTarget := flag.String("monthly-target", "0", "Monthly sales target (0 disables monthly tracking).")
	flag.Parse()

	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*username) == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "-business-name, -username and -password are required")
		os.Exit(1)
	}

	daily, err := decimal.NewFromString(*dailyTarget)
	if err != nil || daily.IsNegative() {
		fmt.Fprintf(os.Stderr, "invalid -daily-target %q\n", *dailyTarget)
		os.Exit(1)
	}
	monthly, err := decimal.NewFromString(*monthlyTarget)
	if err != nil || monthly.IsNegative() {
		fmt.Fprintf(os.Stderr, "invalid -monthly-target %q\n", *monthlyTarget)
		os.Exit(1)
	}

	ctx := appctx.Set(context.Background(), appctx.ContextKeySkipTenantScope, true)
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	business := models.Business{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(*name),
		Timezone: *timezone,
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&business).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create business: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created business %s (%s)\n", business.Name, business.ID)

	// Password is hashed by the model's BeforeSave hook.
	user := models.User{
		BusinessId: business.ID.String(),
		Username:   strings.TrimSpace(*username),
		Name:       strings.TrimSpace(*username),
		Password:   *password,
		Role:       models.UserRoleAdmin,
		IsActive:   utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created admin user %s (id %d)\n", user.Username, user.ID)

	cfg := models.TargetConfig{
		BusinessId:    business.ID.String(),
		DailyTarget:   daily,
		MonthlyTarget: monthly,
	}
	if err := db.WithContext(ctx).Create(&cfg).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create target config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("targets: daily=%s monthly=%s\n", daily.String(), monthly.String())

	if os.Getenv("TOKEN_HOUR_LIFESPAN") == "" {
		os.Setenv("TOKEN_HOUR_LIFESPAN", "24")
	}
	token, err := utils.JwtGenerate(user.ID, business.ID.String(), string(user.Role))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("token: %s\n", token)
}
