package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/cablebill/internal/bill/domain"
	"github.com/smallbiznis/cablebill/internal/clock"
	"github.com/smallbiznis/cablebill/internal/events"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	"github.com/smallbiznis/cablebill/internal/numbering"
	"github.com/smallbiznis/cablebill/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/cablebill/internal/payment/domain"
	"github.com/smallbiznis/cablebill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Numbers   *numbering.Generator
	Clock     clock.Clock
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
	ledgerSvc ledgerdomain.Service
	outbox    *events.Outbox
	metrics   *metrics.BillingMetrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("payment.service"),
		genID:     p.GenID,
		numbers:   p.Numbers,
		clock:     p.Clock,
		ledgerSvc: p.LedgerSvc,
		outbox:    p.Outbox,
		metrics:   p.Metrics,
	}
}

// Create records a payment and, when attached to a bill, reconciles the
// bill's cumulative paid amount and status in the same transaction.
func (s *Service) Create(ctx context.Context, req paymentdomain.CreatePaymentRequest) (*paymentdomain.Payment, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return nil, paymentdomain.ErrInvalidCustomer
	}
	if !req.Amount.IsPositive() {
		return nil, paymentdomain.ErrInvalidAmount
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, paymentdomain.ErrInvalidMethod
	}

	var billID *snowflake.ID
	if raw := strings.TrimSpace(req.BillID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil || parsed == 0 {
			return nil, billdomain.ErrInvalidID
		}
		billID = &parsed
	}

	var payment paymentdomain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now()
		payment = paymentdomain.Payment{
			ID:            s.genID.Generate(),
			CustomerID:    customerID,
			BillID:        billID,
			Amount:        req.Amount,
			PaymentMethod: method,
			PaymentSource: strings.TrimSpace(req.PaymentSource),
			Status:        paymentdomain.PaymentStatusCompleted,
			Notes:         strings.TrimSpace(req.Notes),
			CreatedAt:     now,
		}
		if err := s.insertPayment(ctx, tx, &payment); err != nil {
			return err
		}

		if billID != nil {
			if err := s.reconcileBill(ctx, tx, *billID, customerID, now); err != nil {
				return err
			}
		}

		if _, err := s.ledgerSvc.Record(ctx, tx, ledgerdomain.Entry{
			CustomerID:       customerID,
			Type:             ledgerdomain.TypePaymentReceived,
			Amount:           payment.Amount,
			Description:      fmt.Sprintf("Payment %s received via %s", payment.PaymentNumber, method),
			RelatedPaymentID: &payment.ID,
		}); err != nil {
			return err
		}

		payload := events.PaymentPayload{
			PaymentID:     payment.ID.String(),
			PaymentNumber: payment.PaymentNumber,
			CustomerID:    customerID.String(),
			Amount:        payment.Amount.String(),
		}
		if billID != nil {
			payload.BillID = billID.String()
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			CustomerID: customerID,
			Type:       events.EventPaymentReceived,
			Payload:    payload.ToMap(),
			DedupeKey:  events.EventPaymentReceived + ":" + payment.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentRecorded(billID != nil)
	return &payment, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*paymentdomain.Payment, error) {
	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || paymentID == 0 {
		return nil, paymentdomain.ErrInvalidID
	}

	var payment paymentdomain.Payment
	if err := s.db.WithContext(ctx).Where("id = ?", paymentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentdomain.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]paymentdomain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil || id == 0 {
		return nil, paymentdomain.ErrInvalidCustomer
	}

	payments := make([]paymentdomain.Payment, 0)
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", id).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *Service) insertPayment(ctx context.Context, tx *gorm.DB, payment *paymentdomain.Payment) error {
	for attempt := 0; attempt < numbering.MaxAttempts; attempt++ {
		payment.PaymentNumber = s.numbers.Next(numbering.PrefixPayment, payment.CreatedAt)
		result := tx.WithContext(ctx).Exec(
			`INSERT INTO payments (
				id, payment_number, customer_id, bill_id, amount,
				payment_method, payment_source, status, notes, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (payment_number) DO NOTHING`,
			payment.ID,
			payment.PaymentNumber,
			payment.CustomerID,
			payment.BillID,
			payment.Amount,
			payment.PaymentMethod,
			payment.PaymentSource,
			payment.Status,
			payment.Notes,
			payment.CreatedAt,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		s.metrics.IncNumberRetry()
		s.log.Warn("payment number collided, regenerating",
			zap.String("payment_number", payment.PaymentNumber),
		)
	}
	return paymentdomain.ErrNumberConflict
}

// reconcileBill re-sums all payments applied to the bill (the new payment
// is already inserted) and derives the bill status. paid_at is stamped
// only on the first transition to PAID.
func (s *Service) reconcileBill(ctx context.Context, tx *gorm.DB, billID, customerID snowflake.ID, now time.Time) error {
	var bill billdomain.Bill
	if err := db.ForUpdate(tx.WithContext(ctx)).
		Where("id = ?", billID).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billdomain.ErrNotFound
		}
		return err
	}
	if bill.CustomerID != customerID {
		return paymentdomain.ErrBillMismatch
	}

	var totalPaid decimal.Decimal
	if err := tx.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE bill_id = ?`, billID).
		Scan(&totalPaid).Error; err != nil {
		return err
	}

	status := billdomain.BillStatusPartial
	if totalPaid.GreaterThanOrEqual(bill.Amount) {
		status = billdomain.BillStatusPaid
	}

	updates := map[string]any{
		"paid_amount": totalPaid,
		"status":      status,
		"updated_at":  now,
	}
	if status == billdomain.BillStatusPaid && bill.PaidAt == nil {
		updates["paid_at"] = now
	}
	return tx.WithContext(ctx).
		Model(&billdomain.Bill{}).
		Where("id = ?", billID).
		Updates(updates).Error
}
