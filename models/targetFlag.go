package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetConfig holds the configured sales goals per business.
type TargetConfig struct {
	BusinessId    string          `gorm:"primaryKey;size:64" json:"business_id"`
	DailyTarget   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"daily_target"`
	MonthlyTarget decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_target"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TargetFlag is one durable achievement flag. The unique index makes the table
// append-only per (business, flag_type, period_key): the first insert wins and
// is the sole guard against duplicate achievement notifications. Rows are never
// updated or deleted; a new period key is a new row.
type TargetFlag struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"size:64;uniqueIndex:uniq_target_flag,priority:1;not null" json:"business_id"`
	FlagType   string    `gorm:"size:50;uniqueIndex:uniq_target_flag,priority:2;not null" json:"flag_type"`
	PeriodKey  string    `gorm:"size:20;uniqueIndex:uniq_target_flag,priority:3;not null" json:"period_key"`
	AchievedAt time.Time `gorm:"autoCreateTime" json:"achieved_at"`
}
