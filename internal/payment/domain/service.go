package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	CustomerID    string
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentSource string
	// BillID applies the payment against a bill. Empty means an
	// unattached payment; it still produces a ledger entry.
	BillID string
	Notes  string
}

type Service interface {
	Create(ctx context.Context, req CreatePaymentRequest) (*Payment, error)
	GetByID(ctx context.Context, id string) (*Payment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Payment, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidMethod   = errors.New("invalid_payment_method")
	ErrInvalidID       = errors.New("invalid_payment_id")
	ErrBillMismatch    = errors.New("bill_customer_mismatch")
	ErrNotFound        = errors.New("payment_not_found")
	ErrNumberConflict  = errors.New("payment_number_conflict")
)
