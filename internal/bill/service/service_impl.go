package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/cablebill/internal/bill/domain"
	"github.com/smallbiznis/cablebill/internal/clock"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
	"github.com/smallbiznis/cablebill/internal/events"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	"github.com/smallbiznis/cablebill/internal/numbering"
	"github.com/smallbiznis/cablebill/internal/observability/metrics"
	plandomain "github.com/smallbiznis/cablebill/internal/plan/domain"
	"github.com/smallbiznis/cablebill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Numbers   *numbering.Generator
	Clock     clock.Clock
	PlanSvc   plandomain.Service
	LedgerSvc ledgerdomain.Service
	Outbox    *events.Outbox
	Metrics   *metrics.BillingMetrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	numbers   *numbering.Generator
	clock     clock.Clock
	planSvc   plandomain.Service
	ledgerSvc ledgerdomain.Service
	outbox    *events.Outbox
	metrics   *metrics.BillingMetrics
}

func NewService(p Params) billdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("bill.service"),
		genID:     p.GenID,
		numbers:   p.Numbers,
		clock:     p.Clock,
		planSvc:   p.PlanSvc,
		ledgerSvc: p.LedgerSvc,
		outbox:    p.Outbox,
		metrics:   p.Metrics,
	}
}

// Create issues a bill for the customer's selected plans. The customer's
// carry-forward balance is folded into the bill amount exactly once: the
// balance is zeroed in the same transaction that adds it to the bill.
func (s *Service) Create(ctx context.Context, req billdomain.CreateBillRequest) (*billdomain.Bill, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return nil, billdomain.ErrInvalidCustomer
	}
	if req.BillDate.IsZero() {
		return nil, billdomain.ErrInvalidBillDate
	}
	if req.PaidAmount != nil && req.PaidAmount.IsNegative() {
		return nil, billdomain.ErrInvalidAmount
	}

	var bill billdomain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer customerdomain.Customer
		if err := db.ForUpdate(tx.WithContext(ctx)).
			Where("id = ?", customerID).
			First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customerdomain.ErrNotFound
			}
			return err
		}

		pricing, err := s.planSvc.Resolve(ctx, req.PlanIDs, req.BillDate)
		if err != nil {
			return err
		}

		amount, newBalance := foldBalance(pricing.TotalAmount, customer.Balance)

		paid := decimal.Zero
		if req.PaidAmount != nil {
			paid = *req.PaidAmount
		}

		planIDs, err := json.Marshal(req.PlanIDs)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		bill = billdomain.Bill{
			ID:         s.genID.Generate(),
			CustomerID: customerID,
			BillDate:   req.BillDate,
			DueDate:    pricing.DueDate,
			Amount:     amount,
			PaidAmount: paid,
			Status:     billdomain.BillStatusPending,
			PlanIDs:    datatypes.JSON(planIDs),
			Notes:      strings.TrimSpace(req.Notes),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.insertBill(ctx, tx, &bill); err != nil {
			return err
		}

		if err := tx.WithContext(ctx).Exec(
			`UPDATE customers
			 SET last_bill_date = ?, next_bill_date = ?, balance = ?, updated_at = ?
			 WHERE id = ?`,
			req.BillDate,
			pricing.DueDate,
			newBalance,
			now,
			customerID,
		).Error; err != nil {
			return err
		}

		if _, err := s.ledgerSvc.Record(ctx, tx, ledgerdomain.Entry{
			CustomerID:    customerID,
			Type:          ledgerdomain.TypeBillGenerated,
			Amount:        amount,
			Description:   fmt.Sprintf("Bill %s generated for %d plan(s)", bill.BillNumber, len(pricing.Plans)),
			RelatedBillID: &bill.ID,
		}); err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			CustomerID: customerID,
			Type:       events.EventBillGenerated,
			Payload: events.BillPayload{
				BillID:     bill.ID.String(),
				BillNumber: bill.BillNumber,
				CustomerID: customerID.String(),
				Amount:     amount.String(),
			}.ToMap(),
			DedupeKey: events.EventBillGenerated + ":" + bill.ID.String(),
		})
	})
	if err != nil {
		s.metrics.IncBillGenerated(resultLabel(err))
		return nil, err
	}

	s.metrics.IncBillGenerated("success")
	return &bill, nil
}

func (s *Service) insertBill(ctx context.Context, tx *gorm.DB, bill *billdomain.Bill) error {
	for attempt := 0; attempt < numbering.MaxAttempts; attempt++ {
		bill.BillNumber = s.numbers.Next(numbering.PrefixBill, bill.CreatedAt)
		result := tx.WithContext(ctx).Exec(
			`INSERT INTO bills (
				id, bill_number, customer_id, bill_date, due_date, amount, paid_amount,
				status, plan_ids, is_physical_bill_generated, notes, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, false, ?, ?, ?)
			ON CONFLICT (bill_number) DO NOTHING`,
			bill.ID,
			bill.BillNumber,
			bill.CustomerID,
			bill.BillDate,
			bill.DueDate,
			bill.Amount,
			bill.PaidAmount,
			bill.Status,
			bill.PlanIDs,
			bill.Notes,
			bill.CreatedAt,
			bill.UpdatedAt,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		s.metrics.IncNumberRetry()
		s.log.Warn("bill number collided, regenerating",
			zap.String("bill_number", bill.BillNumber),
		)
	}
	return billdomain.ErrNumberConflict
}

// MarkPhysicalGenerated transitions the bill to its terminal COMPLETED
// status once a physical copy was produced. The transition intentionally
// emits no ledger transaction.
func (s *Service) MarkPhysicalGenerated(ctx context.Context, billID string) (*billdomain.Bill, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(billID))
	if err != nil || parsed == 0 {
		return nil, billdomain.ErrInvalidID
	}

	var bill billdomain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.ForUpdate(tx.WithContext(ctx)).
			Where("id = ?", parsed).
			First(&bill).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return billdomain.ErrNotFound
			}
			return err
		}

		now := s.clock.Now()
		bill.Status = billdomain.BillStatusCompleted
		bill.IsPhysicalBillGenerated = true
		bill.UpdatedAt = now

		return tx.WithContext(ctx).Exec(
			`UPDATE bills
			 SET status = ?, is_physical_bill_generated = true, updated_at = ?
			 WHERE id = ?`,
			billdomain.BillStatusCompleted,
			now,
			parsed,
		).Error
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*billdomain.Bill, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return nil, billdomain.ErrInvalidID
	}

	var bill billdomain.Bill
	if err := s.db.WithContext(ctx).Where("id = ?", parsed).First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billdomain.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]billdomain.Bill, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil || parsed == 0 {
		return nil, billdomain.ErrInvalidCustomer
	}

	var bills []billdomain.Bill
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", parsed).
		Order("bill_date DESC, id DESC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// foldBalance adds the carry-forward balance to the plan total. Debt
// increases the bill; credit reduces it, with any credit beyond the bill
// amount staying on the customer balance.
func foldBalance(planTotal, balance decimal.Decimal) (amount, newBalance decimal.Decimal) {
	amount = planTotal.Add(balance)
	newBalance = decimal.Zero
	if amount.IsNegative() {
		newBalance = amount
		amount = decimal.Zero
	}
	return amount, newBalance
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, billdomain.ErrNumberConflict):
		return "conflict"
	default:
		return "failed"
	}
}
