package models

import (
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Party is a customer or supplier. Balance is the outstanding amount in the
// party's own direction: receivable from customers, owed to suppliers.
type Party struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"size:64;index;not null" json:"business_id"`
	Name       string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Type       PartyType       `gorm:"type:enum('Customer', 'Supplier');default:Customer" json:"type"`
	Phone      string          `gorm:"size:20" json:"phone"`
	Email      string          `gorm:"size:100" json:"email"`
	Address    string          `gorm:"type:text" json:"address"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Party) BeforeSave(tx *gorm.DB) error {
	if p.Phone != "" {
		if err := utils.ValidatePhoneNumber(p.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}
