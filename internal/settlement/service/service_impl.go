package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/cablebill/internal/bill/domain"
	"github.com/smallbiznis/cablebill/internal/clock"
	"github.com/smallbiznis/cablebill/internal/events"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	"github.com/smallbiznis/cablebill/internal/observability/metrics"
	settlementdomain "github.com/smallbiznis/cablebill/internal/settlement/domain"
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
	Clock     clock.Clock
	LedgerSvc ledgerdomain.Service
	Outbox    *events.Outbox
	Metrics   *metrics.BillingMetrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	ledgerSvc ledgerdomain.Service
	outbox    *events.Outbox
	metrics   *metrics.BillingMetrics
}

func NewService(p Params) settlementdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("settlement.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		ledgerSvc: p.LedgerSvc,
		outbox:    p.Outbox,
		metrics:   p.Metrics,
	}
}

// Create writes off part or all of a bill's outstanding debt. The
// remaining debt is computed against the sum of prior settlements on
// the same bill, and the bill flips to SETTLED when it reaches zero.
func (s *Service) Create(ctx context.Context, req settlementdomain.CreateDueSettlementRequest) (*settlementdomain.DueSettlement, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return nil, settlementdomain.ErrInvalidCustomer
	}
	billID, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
	if err != nil || billID == 0 {
		return nil, billdomain.ErrInvalidID
	}
	if !req.SettledAmount.IsPositive() {
		return nil, settlementdomain.ErrInvalidAmount
	}

	var settlement settlementdomain.DueSettlement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
			return settlementdomain.ErrBillMismatch
		}

		var priorSettled decimal.Decimal
		if err := tx.WithContext(ctx).
			Raw(`SELECT COALESCE(SUM(settled_amount), 0) FROM due_settlements WHERE bill_id = ?`, billID).
			Scan(&priorSettled).Error; err != nil {
			return err
		}

		remaining := bill.Amount.Sub(priorSettled).Sub(req.SettledAmount)
		status := settlementdomain.SettlementStatusPartial
		if !remaining.IsPositive() {
			// Over-settlement leaves no residual debt.
			remaining = decimal.Zero
			status = settlementdomain.SettlementStatusSettled
		}

		now := s.clock.Now()
		settlement = settlementdomain.DueSettlement{
			ID:              s.genID.Generate(),
			CustomerID:      customerID,
			BillID:          billID,
			OriginalAmount:  bill.Amount,
			SettledAmount:   req.SettledAmount,
			RemainingAmount: remaining,
			Status:          status,
			Notes:           strings.TrimSpace(req.Notes),
			CreatedAt:       now,
		}
		if err := tx.WithContext(ctx).Create(&settlement).Error; err != nil {
			return err
		}

		if status == settlementdomain.SettlementStatusSettled {
			if err := tx.WithContext(ctx).
				Model(&billdomain.Bill{}).
				Where("id = ?", billID).
				Updates(map[string]any{
					"status":     billdomain.BillStatusSettled,
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		if _, err := s.ledgerSvc.Record(ctx, tx, ledgerdomain.Entry{
			CustomerID:             customerID,
			Type:                   ledgerdomain.TypeDueSettled,
			Amount:                 req.SettledAmount,
			Description:            fmt.Sprintf("Due settled against bill %s", bill.BillNumber),
			RelatedDueSettlementID: &settlement.ID,
		}); err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			CustomerID: customerID,
			Type:       events.EventDueSettled,
			Payload: map[string]any{
				"settlement_id":    settlement.ID.String(),
				"bill_id":          billID.String(),
				"customer_id":      customerID.String(),
				"original_amount":  bill.Amount.String(),
				"settled_amount":   req.SettledAmount.String(),
				"remaining_amount": remaining.String(),
				"status":           string(status),
			},
			DedupeKey: events.EventDueSettled + ":" + settlement.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSettlementWritten(string(settlement.Status))
	return &settlement, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*settlementdomain.DueSettlement, error) {
	settlementID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || settlementID == 0 {
		return nil, settlementdomain.ErrInvalidID
	}

	var settlement settlementdomain.DueSettlement
	if err := s.db.WithContext(ctx).Where("id = ?", settlementID).First(&settlement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settlementdomain.ErrNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

func (s *Service) ListByBill(ctx context.Context, billID string) ([]settlementdomain.DueSettlement, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(billID))
	if err != nil || id == 0 {
		return nil, billdomain.ErrInvalidID
	}

	settlements := make([]settlementdomain.DueSettlement, 0)
	if err := s.db.WithContext(ctx).
		Where("bill_id = ?", id).
		Order("created_at ASC").
		Find(&settlements).Error; err != nil {
		return nil, err
	}
	return settlements, nil
}
