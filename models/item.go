package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"size:64;index;not null" json:"business_id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Unit          string          `gorm:"size:20" json:"unit"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sale_price"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_stock"`
	MinimumStock  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"minimum_stock"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// StockStatus derives the item's stock state from current vs minimum stock.
func (i *Item) StockStatus() StockStatus {
	if i.CurrentStock.IsZero() || i.CurrentStock.IsNegative() {
		return StockStatusOutOfStock
	}
	if i.CurrentStock.LessThanOrEqual(i.MinimumStock) {
		return StockStatusLowStock
	}
	return StockStatusInStock
}
