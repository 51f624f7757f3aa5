package domain

import (
	"context"
	"errors"
)

type CreateCustomerRequest struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	BoxNumber string
}

type UpdateCustomerRequest struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type ListCustomerRequest struct {
	Name     string
	Email    string
	PageSize int32
	Offset   int32
}

type ListCustomerResponse struct {
	Customers []Customer `json:"customers"`
	Total     int64      `json:"total"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	Update(ctx context.Context, id string, req UpdateCustomerRequest) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, req ListCustomerRequest) (ListCustomerResponse, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_customer_id")
	ErrNotFound     = errors.New("customer_not_found")
)
