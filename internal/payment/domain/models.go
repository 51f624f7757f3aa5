// Package domain contains the payment model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const PaymentStatusCompleted = "COMPLETED"

// Payment records money received from a customer. A payment may be
// applied against a bill or stand alone; rows are immutable once written.
type Payment struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	PaymentNumber string        `gorm:"type:text;not null;uniqueIndex:ux_payments_number" json:"payment_number"`
	CustomerID    snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	BillID        *snowflake.ID `gorm:"index" json:"bill_id,omitempty"`

	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"type:text;not null" json:"payment_method"`
	PaymentSource string          `gorm:"type:text" json:"payment_source"`
	Status        string          `gorm:"type:text;not null;default:COMPLETED" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
