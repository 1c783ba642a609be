package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cheque struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"size:64;index;not null" json:"business_id"`
	ChequeNo   string          `gorm:"size:50" json:"cheque_no"`
	PartyName  string          `gorm:"size:100" json:"party_name"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	DueDate    time.Time       `json:"due_date"`
	Status     ChequeStatus    `gorm:"type:enum('Open', 'Cleared', 'Bounced');default:Open" json:"status"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
