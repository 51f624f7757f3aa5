package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cablebill/internal/clock"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	"github.com/smallbiznis/cablebill/internal/numbering"
	"github.com/smallbiznis/cablebill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Numbers *numbering.Generator
	Clock   clock.Clock
	Metrics *metrics.BillingMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	numbers *numbering.Generator
	clock   clock.Clock
	metrics *metrics.BillingMetrics
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("ledger.service"),
		genID:   p.GenID,
		numbers: p.Numbers,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Record appends one immutable transaction inside the caller's database
// transaction. The transaction number is regenerated on collision; a
// duplicate back-reference aborts with the driver's uniqueness error so
// a source record can never own two ledger entries.
func (s *Service) Record(ctx context.Context, tx *gorm.DB, entry ledgerdomain.Entry) (*ledgerdomain.Transaction, error) {
	if tx == nil {
		tx = s.db
	}
	if err := ledgerdomain.ValidateReference(entry); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := ledgerdomain.Transaction{
		ID:                     s.genID.Generate(),
		CustomerID:             entry.CustomerID,
		Type:                   strings.TrimSpace(entry.Type),
		Amount:                 entry.Amount,
		Description:            strings.TrimSpace(entry.Description),
		Status:                 ledgerdomain.StatusCompleted,
		RelatedBillID:          entry.RelatedBillID,
		RelatedPaymentID:       entry.RelatedPaymentID,
		RelatedDueSettlementID: entry.RelatedDueSettlementID,
		RelatedActionID:        entry.RelatedActionID,
		CreatedAt:              now,
	}

	for attempt := 0; attempt < numbering.MaxAttempts; attempt++ {
		record.TransactionNumber = s.numbers.Next(numbering.PrefixTransaction, now)
		result := tx.WithContext(ctx).Exec(
			`INSERT INTO transactions (
				id, transaction_number, customer_id, type, amount, description, status,
				related_bill_id, related_payment_id, related_due_settlement_id, related_action_id,
				created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (transaction_number) DO NOTHING`,
			record.ID,
			record.TransactionNumber,
			record.CustomerID,
			record.Type,
			record.Amount,
			record.Description,
			record.Status,
			record.RelatedBillID,
			record.RelatedPaymentID,
			record.RelatedDueSettlementID,
			record.RelatedActionID,
			record.CreatedAt,
		)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected > 0 {
			s.metrics.IncLedgerEntry(record.Type)
			return &record, nil
		}
		s.metrics.IncNumberRetry()
		s.log.Warn("transaction number collided, regenerating",
			zap.String("transaction_number", record.TransactionNumber),
		)
	}

	return nil, ledgerdomain.ErrNumberConflict
}

func (s *Service) GetByID(ctx context.Context, id string) (*ledgerdomain.Transaction, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return nil, ledgerdomain.ErrInvalidID
	}

	var record ledgerdomain.Transaction
	result := s.db.WithContext(ctx).Where("id = ?", parsed).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrNotFound
		}
		return nil, result.Error
	}
	return &record, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]ledgerdomain.Transaction, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil || parsed == 0 {
		return nil, ledgerdomain.ErrInvalidCustomer
	}

	var records []ledgerdomain.Transaction
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", parsed).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
