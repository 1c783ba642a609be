package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashTransaction is one cash-in-hand movement. Adjustments carry a signed
// amount; every other type is stored positive.
type CashTransaction struct {
	ID          int                 `gorm:"primary_key" json:"id"`
	BusinessId  string              `gorm:"size:64;index:idx_cash_biz_date,priority:1;not null" json:"business_id"`
	Date        time.Time           `gorm:"index:idx_cash_biz_date,priority:2;not null" json:"date"`
	Type        CashTransactionType `gorm:"type:enum('Sale', 'Purchase', 'Income', 'Expense', 'Adjustment');not null" json:"type"`
	Description string              `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}
