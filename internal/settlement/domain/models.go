// Package domain contains the due settlement model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SettlementStatus reports how far a settlement took the bill's debt.
type SettlementStatus string

const (
	// SettlementStatusSettled means the bill's remaining debt reached
	// zero with this settlement. Over-settlement also lands here.
	SettlementStatusSettled SettlementStatus = "SETTLED"
	// SettlementStatusPartial means debt remains after this settlement.
	SettlementStatusPartial SettlementStatus = "PARTIAL"
)

// DueSettlement writes off part or all of a bill's outstanding debt
// without a payment. Rows are immutable once written.
type DueSettlement struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	BillID     snowflake.ID `gorm:"not null;index" json:"bill_id"`

	// OriginalAmount is the bill amount at the time this settlement was
	// written. The debt still outstanding afterwards, accounting for any
	// earlier settlements, lives in RemainingAmount.
	OriginalAmount  decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"original_amount"`
	SettledAmount   decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"settled_amount"`
	RemainingAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"remaining_amount"`
	Status          SettlementStatus `gorm:"type:text;not null" json:"status"`
	Notes           string           `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DueSettlement) TableName() string { return "due_settlements" }
