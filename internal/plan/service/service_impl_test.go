package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cablebill/internal/cache"
	plandomain "github.com/smallbiznis/cablebill/internal/plan/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestResolveBundlePricing(t *testing.T) {
	db := setupPlanTestDB(t)
	svc := newPlanService(db)

	monthly := seedPlan(t, db, plandomain.Plan{
		ID:     1,
		Code:   "BASIC-M",
		Name:   "Basic Monthly",
		Price:  decimal.RequireFromString("100.00"),
		Months: 1,
	})
	discounted := decimal.RequireFromString("150.00")
	quarterly := seedPlan(t, db, plandomain.Plan{
		ID:              2,
		Code:            "STANDARD-Q",
		Name:            "Standard Quarterly",
		Price:           decimal.RequireFromString("200.00"),
		DiscountedPrice: &discounted,
		Months:          3,
	})

	referenceDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	pricing, err := svc.Resolve(context.Background(), []string{
		monthly.ID.String(),
		quarterly.ID.String(),
	}, referenceDate)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// 100*1 + 150*3, discounted price wins over list price.
	if want := decimal.RequireFromString("550.00"); !pricing.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, pricing.TotalAmount)
	}
	if pricing.MaxMonths != 3 {
		t.Fatalf("expected max months 3, got %d", pricing.MaxMonths)
	}
	wantDue := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	if !pricing.DueDate.Equal(wantDue) {
		t.Fatalf("expected due date %s, got %s", wantDue, pricing.DueDate)
	}
	if len(pricing.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(pricing.Plans))
	}
}

func TestResolveDeduplicatesPlanIDs(t *testing.T) {
	db := setupPlanTestDB(t)
	svc := newPlanService(db)

	plan := seedPlan(t, db, plandomain.Plan{
		ID:     3,
		Code:   "BASIC-M",
		Name:   "Basic Monthly",
		Price:  decimal.RequireFromString("100.00"),
		Months: 1,
	})

	pricing, err := svc.Resolve(context.Background(), []string{
		plan.ID.String(),
		plan.ID.String(),
	}, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if want := decimal.RequireFromString("100.00"); !pricing.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, pricing.TotalAmount)
	}
	if len(pricing.Plans) != 1 {
		t.Fatalf("expected duplicate id to count once, got %d plans", len(pricing.Plans))
	}
}

func TestResolveRejectsEmptyPlanSet(t *testing.T) {
	db := setupPlanTestDB(t)
	svc := newPlanService(db)

	_, err := svc.Resolve(context.Background(), nil, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, plandomain.ErrEmptyPlanSet) {
		t.Fatalf("expected empty plan set error, got %v", err)
	}
}

func TestResolveUnknownPlan(t *testing.T) {
	db := setupPlanTestDB(t)
	svc := newPlanService(db)

	_, err := svc.Resolve(context.Background(), []string{"9999"}, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, plandomain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListActiveOnly(t *testing.T) {
	db := setupPlanTestDB(t)
	svc := newPlanService(db)

	seedPlan(t, db, plandomain.Plan{
		ID:     4,
		Code:   "BASIC-M",
		Name:   "Basic Monthly",
		Price:  decimal.RequireFromString("100.00"),
		Months: 1,
	})
	retired := plandomain.Plan{
		ID:     5,
		Code:   "LEGACY",
		Name:   "Legacy",
		Price:  decimal.RequireFromString("80.00"),
		Months: 1,
	}
	retired.IsActive = false
	now := time.Now().UTC()
	retired.CreatedAt = now
	retired.UpdatedAt = now
	if err := db.Create(&retired).Error; err != nil {
		t.Fatalf("seed retired plan: %v", err)
	}

	active, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active plan, got %d", len(active))
	}

	all, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(all))
	}
}

func TestGetByIDServesFromCache(t *testing.T) {
	db := setupPlanTestDB(t)
	svc := newPlanService(db)

	plan := seedPlan(t, db, plandomain.Plan{
		ID:     6,
		Code:   "BASIC-M",
		Name:   "Basic Monthly",
		Price:  decimal.RequireFromString("100.00"),
		Months: 1,
	})

	if _, err := svc.GetByID(context.Background(), plan.ID.String()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := db.Delete(&plandomain.Plan{}, "id = ?", plan.ID).Error; err != nil {
		t.Fatalf("delete plan row: %v", err)
	}

	cached, err := svc.GetByID(context.Background(), plan.ID.String())
	if err != nil {
		t.Fatalf("expected cached plan after row removal, got %v", err)
	}
	if cached.Code != plan.Code {
		t.Fatalf("expected cached code %s, got %s", plan.Code, cached.Code)
	}

	uncached := &Service{
		db:        db,
		log:       zap.NewNop(),
		planCache: cache.NoopCache[snowflake.ID, plandomain.Plan]{},
	}
	if _, err := uncached.GetByID(context.Background(), plan.ID.String()); !errors.Is(err, plandomain.ErrNotFound) {
		t.Fatalf("expected not found without cache, got %v", err)
	}
}

func newPlanService(db *gorm.DB) *Service {
	return &Service{
		db:        db,
		log:       zap.NewNop(),
		planCache: cache.NewTTLCache[snowflake.ID, plandomain.Plan](),
	}
}

func setupPlanTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&plandomain.Plan{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPlan(t *testing.T, db *gorm.DB, plan plandomain.Plan) plandomain.Plan {
	t.Helper()
	now := time.Now().UTC()
	plan.IsActive = true
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}
