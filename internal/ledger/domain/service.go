package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry describes the ledger transaction to append for one billing event.
type Entry struct {
	CustomerID  snowflake.ID
	Type        string
	Amount      decimal.Decimal
	Description string

	RelatedBillID          *snowflake.ID
	RelatedPaymentID       *snowflake.ID
	RelatedDueSettlementID *snowflake.ID
	RelatedActionID        *snowflake.ID
}

// Service appends immutable ledger transactions. Record runs inside the
// caller's transaction so the entry commits or aborts with the rest of
// the operation.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Transaction, error)
}

var (
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrInvalidType      = errors.New("invalid_transaction_type")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidReference = errors.New("invalid_reference")
	ErrInvalidID        = errors.New("invalid_transaction_id")
	ErrNotFound         = errors.New("transaction_not_found")
	ErrNumberConflict   = errors.New("transaction_number_conflict")
)
