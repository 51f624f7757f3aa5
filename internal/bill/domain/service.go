package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateBillRequest struct {
	CustomerID string
	PlanIDs    []string
	BillDate   time.Time
	// PaidAmount seeds paid_amount when the request carries an upfront
	// payment figure; it does not change the bill status.
	PaidAmount *decimal.Decimal
	Notes      string
}

type Service interface {
	Create(ctx context.Context, req CreateBillRequest) (*Bill, error)
	// MarkPhysicalGenerated applies the administrative confirmation that
	// a physical copy of the bill was produced.
	MarkPhysicalGenerated(ctx context.Context, billID string) (*Bill, error)
	GetByID(ctx context.Context, id string) (*Bill, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Bill, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrInvalidBillDate = errors.New("invalid_bill_date")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidID       = errors.New("invalid_bill_id")
	ErrNotFound        = errors.New("bill_not_found")
	ErrNumberConflict  = errors.New("bill_number_conflict")
)
