package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	boxdomain "github.com/smallbiznis/cablebill/internal/boxaction/domain"
	"github.com/smallbiznis/cablebill/internal/clock"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
	"github.com/smallbiznis/cablebill/internal/events"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	ledgerservice "github.com/smallbiznis/cablebill/internal/ledger/service"
	"github.com/smallbiznis/cablebill/internal/numbering"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestApplyTransitions(t *testing.T) {
	cases := []struct {
		name   string
		from   customerdomain.BoxStatus
		action boxdomain.ActionType
		want   customerdomain.BoxStatus
	}{
		{"activate from inactive", customerdomain.BoxStatusInactive, boxdomain.ActionActivated, customerdomain.BoxStatusActive},
		{"activate when already active", customerdomain.BoxStatusActive, boxdomain.ActionActivated, customerdomain.BoxStatusActive},
		{"reactivate from suspended", customerdomain.BoxStatusSuspended, boxdomain.ActionReactivated, customerdomain.BoxStatusActive},
		{"reactivate from inactive", customerdomain.BoxStatusInactive, boxdomain.ActionReactivated, customerdomain.BoxStatusActive},
		{"suspend from active", customerdomain.BoxStatusActive, boxdomain.ActionSuspended, customerdomain.BoxStatusSuspended},
		{"suspend when already suspended", customerdomain.BoxStatusSuspended, boxdomain.ActionSuspended, customerdomain.BoxStatusSuspended},
		{"deactivate from active", customerdomain.BoxStatusActive, boxdomain.ActionDeactivated, customerdomain.BoxStatusInactive},
		{"deactivate from suspended", customerdomain.BoxStatusSuspended, boxdomain.ActionDeactivated, customerdomain.BoxStatusInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupBoxTestDB(t)
			svc := newBoxService(t, db)
			customer := seedBoxCustomer(t, db, tc.from)

			activation, err := svc.Apply(context.Background(), boxdomain.ApplyActionRequest{
				CustomerID: customer.ID.String(),
				Action:     tc.action,
			})
			if err != nil {
				t.Fatalf("apply %s: %v", tc.action, err)
			}
			if activation.PreviousStatus != tc.from {
				t.Fatalf("expected previous status %s, got %s", tc.from, activation.PreviousStatus)
			}
			if activation.NewStatus != tc.want {
				t.Fatalf("expected new status %s, got %s", tc.want, activation.NewStatus)
			}

			var reloaded customerdomain.Customer
			if err := db.Where("id = ?", customer.ID).First(&reloaded).Error; err != nil {
				t.Fatalf("reload customer: %v", err)
			}
			if reloaded.BoxStatus != tc.want {
				t.Fatalf("expected customer box status %s, got %s", tc.want, reloaded.BoxStatus)
			}
			if reloaded.LastBoxStatusChangedAt == nil {
				t.Fatalf("expected last_box_status_changed_at stamped")
			}
			if tc.action == boxdomain.ActionActivated && reloaded.BoxActivatedAt == nil {
				t.Fatalf("expected box_activated_at stamped on activation")
			}
			if tc.action != boxdomain.ActionActivated && reloaded.BoxActivatedAt != nil {
				t.Fatalf("expected box_activated_at untouched for %s", tc.action)
			}
		})
	}
}

func TestApplyWritesZeroAmountLedgerEntry(t *testing.T) {
	db := setupBoxTestDB(t)
	svc := newBoxService(t, db)
	customer := seedBoxCustomer(t, db, customerdomain.BoxStatusActive)

	activation, err := svc.Apply(context.Background(), boxdomain.ApplyActionRequest{
		CustomerID: customer.ID.String(),
		Action:     boxdomain.ActionSuspended,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	var txn ledgerdomain.Transaction
	if err := db.Where("related_action_id = ?", activation.ID).First(&txn).Error; err != nil {
		t.Fatalf("load ledger transaction: %v", err)
	}
	if want := ledgerdomain.TypeBoxPrefix + string(boxdomain.ActionSuspended); txn.Type != want {
		t.Fatalf("expected transaction type %s, got %s", want, txn.Type)
	}
	if !txn.Amount.IsZero() {
		t.Fatalf("expected zero amount, got %s", txn.Amount)
	}
}

func TestApplyNormalizesActionCase(t *testing.T) {
	db := setupBoxTestDB(t)
	svc := newBoxService(t, db)
	customer := seedBoxCustomer(t, db, customerdomain.BoxStatusActive)

	activation, err := svc.Apply(context.Background(), boxdomain.ApplyActionRequest{
		CustomerID: customer.ID.String(),
		Action:     boxdomain.ActionType("suspended"),
	})
	if err != nil {
		t.Fatalf("apply lowercase action: %v", err)
	}
	if activation.Action != boxdomain.ActionSuspended {
		t.Fatalf("expected normalized action, got %s", activation.Action)
	}
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	db := setupBoxTestDB(t)
	svc := newBoxService(t, db)
	customer := seedBoxCustomer(t, db, customerdomain.BoxStatusActive)

	_, err := svc.Apply(context.Background(), boxdomain.ApplyActionRequest{
		CustomerID: customer.ID.String(),
		Action:     boxdomain.ActionType("UNPLUGGED"),
	})
	if !errors.Is(err, boxdomain.ErrInvalidAction) {
		t.Fatalf("expected invalid action, got %v", err)
	}

	_, err = svc.Apply(context.Background(), boxdomain.ApplyActionRequest{
		CustomerID: "99999",
		Action:     boxdomain.ActionActivated,
	})
	if !errors.Is(err, customerdomain.ErrNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
}

func newBoxService(t *testing.T, db *gorm.DB) boxdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()
	fixed := clock.FixedClock{At: time.Date(2023, 1, 25, 0, 0, 0, 0, time.UTC)}

	ledgerSvc := ledgerservice.NewService(ledgerservice.Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Numbers: numbering.New(),
		Clock:   fixed,
	})

	return NewService(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fixed,
		LedgerSvc: ledgerSvc,
		Outbox:    events.NewOutbox(db, node, fixed),
	})
}

func setupBoxTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&customerdomain.Customer{},
		&boxdomain.BoxActivation{},
		&ledgerdomain.Transaction{},
		&events.BillingEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBoxCustomer(t *testing.T, db *gorm.DB, status customerdomain.BoxStatus) customerdomain.Customer {
	t.Helper()
	now := time.Now().UTC()
	customer := customerdomain.Customer{
		ID:        snowflake.ID(7500),
		Name:      "Lakshmi Nair",
		Balance:   decimal.Zero,
		BoxStatus: status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}
