// Package domain contains the bill model and its lifecycle states.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	BillStatusPending BillStatus = "PENDING"
	BillStatusPartial BillStatus = "PARTIAL"
	BillStatusPaid    BillStatus = "PAID"
	BillStatusSettled BillStatus = "SETTLED"

	// BillStatusCompleted marks the administrative "physical bill
	// produced" confirmation. It is terminal and emits no ledger entry.
	BillStatusCompleted BillStatus = "COMPLETED"
)

// Bill is one billing document issued against a set of plans. Amount
// includes any carry-forward balance folded in at creation time.
type Bill struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	BillNumber string       `gorm:"type:text;not null;uniqueIndex:ux_bills_number" json:"bill_number"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`

	BillDate time.Time `gorm:"not null" json:"bill_date"`
	DueDate  time.Time `gorm:"not null" json:"due_date"`

	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaidAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paid_amount"`
	Status     BillStatus      `gorm:"type:text;not null;default:PENDING" json:"status"`

	PlanIDs                 datatypes.JSON `gorm:"type:jsonb" json:"plan_ids"`
	IsPhysicalBillGenerated bool           `gorm:"not null;default:false" json:"is_physical_bill_generated"`
	PaidAt                  *time.Time     `gorm:"" json:"paid_at,omitempty"`
	Notes                   string         `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }
