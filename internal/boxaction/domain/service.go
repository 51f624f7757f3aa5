package domain

import (
	"context"
	"errors"
)

type ApplyActionRequest struct {
	CustomerID string
	Action     ActionType
	Reason     string
	Notes      string
}

type Service interface {
	Apply(ctx context.Context, req ApplyActionRequest) (*BoxActivation, error)
	ListByCustomer(ctx context.Context, customerID string) ([]BoxActivation, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrInvalidAction   = errors.New("invalid_box_action")
)
