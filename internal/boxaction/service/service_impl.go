package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	boxdomain "github.com/smallbiznis/cablebill/internal/boxaction/domain"
	"github.com/smallbiznis/cablebill/internal/clock"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
	"github.com/smallbiznis/cablebill/internal/events"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	"github.com/smallbiznis/cablebill/internal/observability/metrics"
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

func NewService(p Params) boxdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("boxaction.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		ledgerSvc: p.LedgerSvc,
		outbox:    p.Outbox,
		metrics:   p.Metrics,
	}
}

// Apply records a box service action and moves the customer's box status
// to the state the action dictates. Every action is accepted from every
// current state.
func (s *Service) Apply(ctx context.Context, req boxdomain.ApplyActionRequest) (*boxdomain.BoxActivation, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return nil, boxdomain.ErrInvalidCustomer
	}
	action := boxdomain.ActionType(strings.ToUpper(strings.TrimSpace(string(req.Action))))
	newStatus, ok := action.ResultingStatus()
	if !ok {
		return nil, boxdomain.ErrInvalidAction
	}

	var activation boxdomain.BoxActivation
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

		now := s.clock.Now()
		activation = boxdomain.BoxActivation{
			ID:             s.genID.Generate(),
			CustomerID:     customerID,
			Action:         action,
			ActionDate:     now,
			PreviousStatus: customer.BoxStatus,
			NewStatus:      newStatus,
			Reason:         strings.TrimSpace(req.Reason),
			Notes:          strings.TrimSpace(req.Notes),
			CreatedAt:      now,
		}
		if err := tx.WithContext(ctx).Create(&activation).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"box_status":                 newStatus,
			"last_box_status_changed_at": now,
			"updated_at":                 now,
		}
		if action.StampsActivation() {
			updates["box_activated_at"] = now
		}
		if err := tx.WithContext(ctx).
			Model(&customerdomain.Customer{}).
			Where("id = ?", customerID).
			Updates(updates).Error; err != nil {
			return err
		}

		if _, err := s.ledgerSvc.Record(ctx, tx, ledgerdomain.Entry{
			CustomerID:      customerID,
			Type:            ledgerdomain.TypeBoxPrefix + string(action),
			Amount:          decimal.Zero,
			Description:     fmt.Sprintf("Box %s for customer %s", strings.ToLower(string(action)), customerID.String()),
			RelatedActionID: &activation.ID,
		}); err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			CustomerID: customerID,
			Type:       events.EventBoxStatusChanged,
			Payload: map[string]any{
				"action_id":       activation.ID.String(),
				"customer_id":     customerID.String(),
				"action":          string(action),
				"previous_status": string(activation.PreviousStatus),
				"new_status":      string(newStatus),
			},
			DedupeKey: events.EventBoxStatusChanged + ":" + activation.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBoxActionApplied(string(action))
	return &activation, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]boxdomain.BoxActivation, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil || id == 0 {
		return nil, boxdomain.ErrInvalidCustomer
	}

	actions := make([]boxdomain.BoxActivation, 0)
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", id).
		Order("created_at DESC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}
