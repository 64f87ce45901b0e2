package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceConfig is one row of the price catalog. The ledger never computes
// prices; it only reads the active row for a service type.
type PriceConfig struct {
	ID            string           `json:"id"`
	ServiceType   string           `json:"service_type"`
	ServiceName   string           `json:"service_name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	IsActive      bool             `json:"is_active"`
	EffectiveDate *time.Time       `json:"effective_date,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	Description   string           `json:"description,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// EffectivePrice returns the discount price when present, else the list price.
func (p *PriceConfig) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
