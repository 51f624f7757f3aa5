package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Pricing is the aggregate result of resolving a set of plans against a
// reference date. The longest plan in the bundle governs the due date.
type Pricing struct {
	TotalAmount decimal.Decimal
	MaxMonths   int
	DueDate     time.Time
	Plans       []Plan
}

type Service interface {
	GetByID(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]Plan, error)
	// Resolve computes total amount and due date for a non-empty plan set.
	Resolve(ctx context.Context, planIDs []string, referenceDate time.Time) (*Pricing, error)
}

var (
	ErrInvalidID      = errors.New("invalid_plan_id")
	ErrEmptyPlanSet   = errors.New("empty_plan_set")
	ErrInvalidRefDate = errors.New("invalid_reference_date")
	ErrNotFound       = errors.New("plan_not_found")
)
