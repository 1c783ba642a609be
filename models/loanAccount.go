package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanAccount struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"size:64;index;not null" json:"business_id"`
	LenderName   string          `gorm:"size:100;not null" json:"lender_name"`
	Principal    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"principal"`
	Outstanding  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"outstanding"`
	InterestRate decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"interest_rate"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
