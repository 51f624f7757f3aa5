// Package domain contains the plan catalog model and pricing rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Plan is a subscription package. Read-only to the billing core.
type Plan struct {
	ID              snowflake.ID     `gorm:"primaryKey" json:"id"`
	Code            string           `gorm:"type:text;not null;uniqueIndex:ux_plans_code" json:"code"`
	Name            string           `gorm:"type:text;not null" json:"name"`
	Price           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountedPrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"discounted_price,omitempty"`
	Months          int              `gorm:"not null" json:"months"`
	IsActive        bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }

// EffectivePrice is the discounted price when set, else the list price.
// Discounts apply only here, at the per-plan unit-price stage.
func (p Plan) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// Amount is the plan's contribution to a bill: effective price times months.
func (p Plan) Amount() decimal.Decimal {
	return p.EffectivePrice().Mul(decimal.NewFromInt(int64(p.Months)))
}
