package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Transaction types, tagged by the operation that produced the entry.
const (
	TypeBillGenerated   = "BILL_GENERATED"
	TypePaymentReceived = "PAYMENT_RECEIVED"
	TypeDueSettled      = "DUE_SETTLED"

	// Box action entries use BOX_<action>, e.g. BOX_ACTIVATED.
	TypeBoxPrefix = "BOX_"
)

const StatusCompleted = "COMPLETED"

// Transaction is one immutable ledger entry. Exactly one of the Related*
// columns is populated; a unique index per column keeps the link
// one-to-one with the originating record. Rows are never updated or
// deleted.
type Transaction struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	TransactionNumber string       `gorm:"type:text;not null;uniqueIndex:ux_transactions_number" json:"transaction_number"`
	CustomerID        snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Type              string       `gorm:"type:text;not null;index" json:"type"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description       string          `gorm:"type:text;not null" json:"description"`
	Status            string          `gorm:"type:text;not null;default:COMPLETED" json:"status"`

	RelatedBillID          *snowflake.ID `gorm:"uniqueIndex:ux_transactions_bill" json:"related_bill_id,omitempty"`
	RelatedPaymentID       *snowflake.ID `gorm:"uniqueIndex:ux_transactions_payment" json:"related_payment_id,omitempty"`
	RelatedDueSettlementID *snowflake.ID `gorm:"uniqueIndex:ux_transactions_due_settlement" json:"related_due_settlement_id,omitempty"`
	RelatedActionID        *snowflake.ID `gorm:"uniqueIndex:ux_transactions_action" json:"related_action_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
