package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Purchase struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"size:64;index:idx_purchases_biz_date,priority:1;not null" json:"business_id"`
	BillNo      string          `gorm:"size:50;index" json:"bill_no"`
	PartyId     int             `gorm:"index" json:"party_id"`
	PartyName   string          `gorm:"size:100" json:"party_name"`
	Date        time.Time       `gorm:"index:idx_purchases_biz_date,priority:2;not null" json:"date"`
	PaymentType PaymentType     `gorm:"type:enum('Cash', 'Bank', 'Cheque', 'Credit');default:Cash" json:"payment_type"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	Status      PaymentStatus   `gorm:"type:enum('Paid', 'Unpaid');default:Unpaid" json:"status"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
