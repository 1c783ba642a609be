package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"size:64;index:idx_expenses_biz_date,priority:1;not null" json:"business_id"`
	Date        time.Time       `gorm:"index:idx_expenses_biz_date,priority:2;not null" json:"date"`
	Category    string          `gorm:"size:100;index" json:"category"`
	ItemName    string          `gorm:"size:100" json:"item_name"`
	Description string          `gorm:"type:text" json:"description"`
	PaymentType PaymentType     `gorm:"type:enum('Cash', 'Bank', 'Cheque', 'Credit');default:Cash" json:"payment_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
