// Package render produces the printable bill document.
package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenderInput is the deterministic input used for bill rendering.
type RenderInput struct {
	Bill     BillView
	Customer CustomerView
	Lines    []PlanLineView
}

type BillView struct {
	Number     string
	Status     string
	BillDate   time.Time
	DueDate    *time.Time
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	Notes      string
}

type CustomerView struct {
	Name      string
	Address   string
	BoxNumber string
}

type PlanLineView struct {
	Name   string
	Months int
	Price  decimal.Decimal
	Amount decimal.Decimal
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}
