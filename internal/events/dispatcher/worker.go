// Package dispatcher drains the billing event outbox in the background.
package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/cablebill/internal/events"
	"github.com/smallbiznis/cablebill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config Config `optional:"true"`
}

type Worker struct {
	db  *gorm.DB
	log *zap.Logger
	cfg Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:  p.DB,
		log: p.Log.Named("events.dispatcher"),
		cfg: p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("outbox dispatch run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce drains up to one batch of unpublished events and returns how
// many were dispatched.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	return w.processBatch(ctx, w.cfg.BatchSize)
}

func (w *Worker) processBatch(ctx context.Context, limit int) (int, error) {
	if w.db == nil {
		return 0, errors.New("dispatcher_unavailable")
	}
	if limit <= 0 {
		limit = w.cfg.BatchSize
	}

	dispatched := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var batch []events.BillingEvent
		if err := db.ForUpdateSkipLocked(tx.WithContext(ctx)).
			Where("published = ?", false).
			Order("created_at ASC").
			Limit(limit).
			Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		for _, event := range batch {
			w.dispatch(event)
			if err := tx.WithContext(ctx).
				Model(&events.BillingEvent{}).
				Where("id = ?", event.ID).
				Update("published", true).Error; err != nil {
				return err
			}
			dispatched++
		}
		return nil
	})
	return dispatched, err
}

// dispatch emits the event to the log stream. Downstream consumers tail
// the structured log until a broker integration lands.
func (w *Worker) dispatch(event events.BillingEvent) {
	w.log.Info("billing event",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.String("customer_id", event.CustomerID.String()),
		zap.Any("payload", map[string]any(event.Payload)),
	)
}
