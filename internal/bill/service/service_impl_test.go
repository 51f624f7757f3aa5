package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/cablebill/internal/bill/domain"
	"github.com/smallbiznis/cablebill/internal/clock"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
	"github.com/smallbiznis/cablebill/internal/events"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	ledgerservice "github.com/smallbiznis/cablebill/internal/ledger/service"
	"github.com/smallbiznis/cablebill/internal/numbering"
	plandomain "github.com/smallbiznis/cablebill/internal/plan/domain"
	planservice "github.com/smallbiznis/cablebill/internal/plan/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCreateBillComputesAmountAndDueDate(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newBillService(t, db)
	customer := seedCustomer(t, db, decimal.Zero)
	monthly, quarterly := seedPlans(t, db)

	billDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bill, err := svc.Create(context.Background(), billdomain.CreateBillRequest{
		CustomerID: customer.ID.String(),
		PlanIDs:    []string{monthly.ID.String(), quarterly.ID.String()},
		BillDate:   billDate,
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if !strings.HasPrefix(bill.BillNumber, numbering.PrefixBill) {
		t.Fatalf("expected BILL- prefix, got %s", bill.BillNumber)
	}
	if want := decimal.RequireFromString("550.00"); !bill.Amount.Equal(want) {
		t.Fatalf("expected amount %s, got %s", want, bill.Amount)
	}
	wantDue := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	if !bill.DueDate.Equal(wantDue) {
		t.Fatalf("expected due date %s, got %s", wantDue, bill.DueDate)
	}
	if bill.Status != billdomain.BillStatusPending {
		t.Fatalf("expected pending status, got %s", bill.Status)
	}

	var updated customerdomain.Customer
	if err := db.Where("id = ?", customer.ID).First(&updated).Error; err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if updated.LastBillDate == nil || !updated.LastBillDate.Equal(billDate) {
		t.Fatalf("expected last bill date %s, got %v", billDate, updated.LastBillDate)
	}
	if updated.NextBillDate == nil || !updated.NextBillDate.Equal(wantDue) {
		t.Fatalf("expected next bill date %s, got %v", wantDue, updated.NextBillDate)
	}

	var txn ledgerdomain.Transaction
	if err := db.Where("related_bill_id = ?", bill.ID).First(&txn).Error; err != nil {
		t.Fatalf("load ledger transaction: %v", err)
	}
	if txn.Type != ledgerdomain.TypeBillGenerated {
		t.Fatalf("expected %s transaction, got %s", ledgerdomain.TypeBillGenerated, txn.Type)
	}
	if !txn.Amount.Equal(bill.Amount) {
		t.Fatalf("expected ledger amount %s, got %s", bill.Amount, txn.Amount)
	}

	var eventCount int64
	if err := db.Model(&events.BillingEvent{}).
		Where("event_type = ?", events.EventBillGenerated).
		Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected 1 outbox event, got %d", eventCount)
	}
}

func TestCreateBillFoldsDebtOnce(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newBillService(t, db)
	customer := seedCustomer(t, db, decimal.RequireFromString("50.00"))
	monthly, _ := seedPlans(t, db)

	bill, err := svc.Create(context.Background(), billdomain.CreateBillRequest{
		CustomerID: customer.ID.String(),
		PlanIDs:    []string{monthly.ID.String()},
		BillDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if want := decimal.RequireFromString("150.00"); !bill.Amount.Equal(want) {
		t.Fatalf("expected carried-forward amount %s, got %s", want, bill.Amount)
	}

	var updated customerdomain.Customer
	if err := db.Where("id = ?", customer.ID).First(&updated).Error; err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if !updated.Balance.IsZero() {
		t.Fatalf("expected balance zeroed after fold, got %s", updated.Balance)
	}
}

func TestCreateBillResidualCreditStaysOnBalance(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newBillService(t, db)
	customer := seedCustomer(t, db, decimal.RequireFromString("-150.00"))
	monthly, _ := seedPlans(t, db)

	bill, err := svc.Create(context.Background(), billdomain.CreateBillRequest{
		CustomerID: customer.ID.String(),
		PlanIDs:    []string{monthly.ID.String()},
		BillDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if !bill.Amount.IsZero() {
		t.Fatalf("expected zero bill with credit overhang, got %s", bill.Amount)
	}

	var updated customerdomain.Customer
	if err := db.Where("id = ?", customer.ID).First(&updated).Error; err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if want := decimal.RequireFromString("-50.00"); !updated.Balance.Equal(want) {
		t.Fatalf("expected residual credit %s, got %s", want, updated.Balance)
	}
}

func TestCreateBillUnknownCustomer(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newBillService(t, db)
	monthly, _ := seedPlans(t, db)

	_, err := svc.Create(context.Background(), billdomain.CreateBillRequest{
		CustomerID: "424242",
		PlanIDs:    []string{monthly.ID.String()},
		BillDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, customerdomain.ErrNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
}

func TestMarkPhysicalGenerated(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newBillService(t, db)
	customer := seedCustomer(t, db, decimal.Zero)
	monthly, _ := seedPlans(t, db)

	bill, err := svc.Create(context.Background(), billdomain.CreateBillRequest{
		CustomerID: customer.ID.String(),
		PlanIDs:    []string{monthly.ID.String()},
		BillDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	updated, err := svc.MarkPhysicalGenerated(context.Background(), bill.ID.String())
	if err != nil {
		t.Fatalf("mark physical: %v", err)
	}
	if updated.Status != billdomain.BillStatusCompleted {
		t.Fatalf("expected completed status, got %s", updated.Status)
	}
	if !updated.IsPhysicalBillGenerated {
		t.Fatalf("expected physical flag set")
	}

	// The administrative confirmation must not append a second ledger entry.
	var txnCount int64
	if err := db.Model(&ledgerdomain.Transaction{}).
		Where("related_bill_id = ?", bill.ID).
		Count(&txnCount).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if txnCount != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", txnCount)
	}
}

func newBillService(t *testing.T, db *gorm.DB) billdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()
	fixed := clock.FixedClock{At: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)}

	planSvc := planservice.NewService(planservice.Params{DB: db, Log: log})
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
		Numbers:   numbering.New(),
		Clock:     fixed,
		PlanSvc:   planSvc,
		LedgerSvc: ledgerSvc,
		Outbox:    events.NewOutbox(db, node, fixed),
	})
}

func setupBillTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&customerdomain.Customer{},
		&plandomain.Plan{},
		&billdomain.Bill{},
		&ledgerdomain.Transaction{},
		&events.BillingEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, balance decimal.Decimal) customerdomain.Customer {
	t.Helper()
	now := time.Now().UTC()
	customer := customerdomain.Customer{
		ID:        snowflake.ID(7001),
		Name:      "Asha Kumar",
		Email:     "asha@example.com",
		Balance:   balance,
		BoxStatus: customerdomain.BoxStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func seedPlans(t *testing.T, db *gorm.DB) (plandomain.Plan, plandomain.Plan) {
	t.Helper()
	now := time.Now().UTC()
	monthly := plandomain.Plan{
		ID:        snowflake.ID(8001),
		Code:      "BASIC-M",
		Name:      "Basic Monthly",
		Price:     decimal.RequireFromString("100.00"),
		Months:    1,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	discounted := decimal.RequireFromString("150.00")
	quarterly := plandomain.Plan{
		ID:              snowflake.ID(8002),
		Code:            "STANDARD-Q",
		Name:            "Standard Quarterly",
		Price:           decimal.RequireFromString("200.00"),
		DiscountedPrice: &discounted,
		Months:          3,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.Create(&monthly).Error; err != nil {
		t.Fatalf("seed monthly plan: %v", err)
	}
	if err := db.Create(&quarterly).Error; err != nil {
		t.Fatalf("seed quarterly plan: %v", err)
	}
	return monthly, quarterly
}
