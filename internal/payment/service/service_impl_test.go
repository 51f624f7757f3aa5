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
	paymentdomain "github.com/smallbiznis/cablebill/internal/payment/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCreatePaymentReconcilesBill(t *testing.T) {
	db := setupPaymentTestDB(t)
	svc := newPaymentService(t, db)
	customer := seedPaymentCustomer(t, db)
	bill := seedBill(t, db, customer.ID, decimal.RequireFromString("160.00"))

	first, err := svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.RequireFromString("100.00"),
		PaymentMethod: "CASH",
		BillID:        bill.ID.String(),
	})
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if !strings.HasPrefix(first.PaymentNumber, numbering.PrefixPayment) {
		t.Fatalf("expected PAY- prefix, got %s", first.PaymentNumber)
	}

	var partial billdomain.Bill
	if err := db.Where("id = ?", bill.ID).First(&partial).Error; err != nil {
		t.Fatalf("reload bill: %v", err)
	}
	if partial.Status != billdomain.BillStatusPartial {
		t.Fatalf("expected partial status, got %s", partial.Status)
	}
	if want := decimal.RequireFromString("100.00"); !partial.PaidAmount.Equal(want) {
		t.Fatalf("expected paid amount %s, got %s", want, partial.PaidAmount)
	}
	if partial.PaidAt != nil {
		t.Fatalf("expected paid_at unset while partial")
	}

	if _, err := svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.RequireFromString("60.00"),
		PaymentMethod: "CASH",
		BillID:        bill.ID.String(),
	}); err != nil {
		t.Fatalf("second payment: %v", err)
	}

	var paid billdomain.Bill
	if err := db.Where("id = ?", bill.ID).First(&paid).Error; err != nil {
		t.Fatalf("reload bill: %v", err)
	}
	if paid.Status != billdomain.BillStatusPaid {
		t.Fatalf("expected paid status, got %s", paid.Status)
	}
	if want := decimal.RequireFromString("160.00"); !paid.PaidAmount.Equal(want) {
		t.Fatalf("expected paid amount %s, got %s", want, paid.PaidAmount)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected paid_at stamped on full payment")
	}

	var txnCount int64
	if err := db.Model(&ledgerdomain.Transaction{}).
		Where("type = ?", ledgerdomain.TypePaymentReceived).
		Count(&txnCount).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if txnCount != 2 {
		t.Fatalf("expected 2 payment transactions, got %d", txnCount)
	}
}

func TestCreatePaymentKeepsPaidAtOnOverpayment(t *testing.T) {
	db := setupPaymentTestDB(t)
	svc := newPaymentService(t, db).(*Service)
	customer := seedPaymentCustomer(t, db)
	bill := seedBill(t, db, customer.ID, decimal.RequireFromString("100.00"))

	svc.clock = clock.FixedClock{At: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)}
	if _, err := svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.RequireFromString("100.00"),
		PaymentMethod: "UPI",
		BillID:        bill.ID.String(),
	}); err != nil {
		t.Fatalf("full payment: %v", err)
	}

	var afterFirst billdomain.Bill
	if err := db.Where("id = ?", bill.ID).First(&afterFirst).Error; err != nil {
		t.Fatalf("reload bill: %v", err)
	}
	firstPaidAt := afterFirst.PaidAt
	if firstPaidAt == nil {
		t.Fatalf("expected paid_at after full payment")
	}

	svc.clock = clock.FixedClock{At: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)}
	if _, err := svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.RequireFromString("25.00"),
		PaymentMethod: "UPI",
		BillID:        bill.ID.String(),
	}); err != nil {
		t.Fatalf("overpayment: %v", err)
	}

	var afterSecond billdomain.Bill
	if err := db.Where("id = ?", bill.ID).First(&afterSecond).Error; err != nil {
		t.Fatalf("reload bill: %v", err)
	}
	if afterSecond.PaidAt == nil || !afterSecond.PaidAt.Equal(*firstPaidAt) {
		t.Fatalf("expected paid_at to keep first value %v, got %v", firstPaidAt, afterSecond.PaidAt)
	}
}

func TestCreateUnattachedPayment(t *testing.T) {
	db := setupPaymentTestDB(t)
	svc := newPaymentService(t, db)
	customer := seedPaymentCustomer(t, db)

	payment, err := svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.RequireFromString("75.00"),
		PaymentMethod: "CASH",
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.BillID != nil {
		t.Fatalf("expected no bill attachment, got %v", payment.BillID)
	}

	var txn ledgerdomain.Transaction
	if err := db.Where("related_payment_id = ?", payment.ID).First(&txn).Error; err != nil {
		t.Fatalf("load ledger transaction: %v", err)
	}
	if txn.Type != ledgerdomain.TypePaymentReceived {
		t.Fatalf("expected payment transaction, got %s", txn.Type)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	db := setupPaymentTestDB(t)
	svc := newPaymentService(t, db)
	customer := seedPaymentCustomer(t, db)

	_, err := svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.Zero,
		PaymentMethod: "CASH",
	})
	if !errors.Is(err, paymentdomain.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	_, err = svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID: customer.ID.String(),
		Amount:     decimal.RequireFromString("10.00"),
	})
	if !errors.Is(err, paymentdomain.ErrInvalidMethod) {
		t.Fatalf("expected invalid method, got %v", err)
	}

	_, err = svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.RequireFromString("10.00"),
		PaymentMethod: "CASH",
		BillID:        "99999",
	})
	if !errors.Is(err, billdomain.ErrNotFound) {
		t.Fatalf("expected bill not found, got %v", err)
	}
}

func TestCreatePaymentRejectsForeignBill(t *testing.T) {
	db := setupPaymentTestDB(t)
	svc := newPaymentService(t, db)
	customer := seedPaymentCustomer(t, db)
	bill := seedBill(t, db, customer.ID, decimal.RequireFromString("100.00"))

	other := customerdomain.Customer{
		ID:        snowflake.ID(7101),
		Name:      "Deepa Rao",
		Balance:   decimal.Zero,
		BoxStatus: customerdomain.BoxStatusActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other customer: %v", err)
	}

	_, err := svc.Create(context.Background(), paymentdomain.CreatePaymentRequest{
		CustomerID:    other.ID.String(),
		Amount:        decimal.RequireFromString("50.00"),
		PaymentMethod: "CASH",
		BillID:        bill.ID.String(),
	})
	if !errors.Is(err, paymentdomain.ErrBillMismatch) {
		t.Fatalf("expected bill mismatch, got %v", err)
	}

	var reloaded billdomain.Bill
	if err := db.Where("id = ?", bill.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload bill: %v", err)
	}
	if !reloaded.PaidAmount.IsZero() {
		t.Fatalf("expected bill untouched, got paid amount %s", reloaded.PaidAmount)
	}

	var paymentCount int64
	if err := db.Model(&paymentdomain.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if paymentCount != 0 {
		t.Fatalf("expected no payment persisted, got %d", paymentCount)
	}
}

func newPaymentService(t *testing.T, db *gorm.DB) paymentdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()
	fixed := clock.FixedClock{At: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)}

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
		LedgerSvc: ledgerSvc,
		Outbox:    events.NewOutbox(db, node, fixed),
	})
}

func setupPaymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&customerdomain.Customer{},
		&billdomain.Bill{},
		&paymentdomain.Payment{},
		&ledgerdomain.Transaction{},
		&events.BillingEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPaymentCustomer(t *testing.T, db *gorm.DB) customerdomain.Customer {
	t.Helper()
	now := time.Now().UTC()
	customer := customerdomain.Customer{
		ID:        snowflake.ID(7100),
		Name:      "Ravi Menon",
		Balance:   decimal.Zero,
		BoxStatus: customerdomain.BoxStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func seedBill(t *testing.T, db *gorm.DB, customerID snowflake.ID, amount decimal.Decimal) billdomain.Bill {
	t.Helper()
	now := time.Now().UTC()
	bill := billdomain.Bill{
		ID:         snowflake.ID(7200),
		BillNumber: "BILL-202301010001",
		CustomerID: customerID,
		BillDate:   now,
		DueDate:    now.AddDate(0, 1, 0),
		Amount:     amount,
		PaidAmount: decimal.Zero,
		Status:     billdomain.BillStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&bill).Error; err != nil {
		t.Fatalf("seed bill: %v", err)
	}
	return bill
}
