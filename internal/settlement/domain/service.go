package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreateDueSettlementRequest struct {
	CustomerID    string
	BillID        string
	SettledAmount decimal.Decimal
	Notes         string
}

type Service interface {
	Create(ctx context.Context, req CreateDueSettlementRequest) (*DueSettlement, error)
	GetByID(ctx context.Context, id string) (*DueSettlement, error)
	ListByBill(ctx context.Context, billID string) ([]DueSettlement, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrInvalidAmount   = errors.New("invalid_settled_amount")
	ErrInvalidID       = errors.New("invalid_settlement_id")
	ErrBillMismatch    = errors.New("bill_customer_mismatch")
	ErrNotFound        = errors.New("settlement_not_found")
)
