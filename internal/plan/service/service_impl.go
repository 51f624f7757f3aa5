package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cablebill/internal/cache"
	plandomain "github.com/smallbiznis/cablebill/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The catalog is read-only to the core, so a short TTL is safe.
const planCacheTTL = time.Minute

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	planCache cache.Cache[snowflake.ID, plandomain.Plan]
}

func NewService(p Params) plandomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("plan.service"),
		planCache: cache.NewTTLCache[snowflake.ID, plandomain.Plan](),
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*plandomain.Plan, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	plan, err := s.loadPlan(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]plandomain.Plan, error) {
	query := s.db.WithContext(ctx).Model(&plandomain.Plan{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var records []plandomain.Plan
	if err := query.Order("code ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Resolve computes effectivePrice*months per plan, sums them, and derives
// the bill due date from the longest plan in the set.
func (s *Service) Resolve(ctx context.Context, planIDs []string, referenceDate time.Time) (*plandomain.Pricing, error) {
	if len(planIDs) == 0 {
		return nil, plandomain.ErrEmptyPlanSet
	}
	if referenceDate.IsZero() {
		return nil, plandomain.ErrInvalidRefDate
	}

	total := decimal.Zero
	maxMonths := 0
	plans := make([]plandomain.Plan, 0, len(planIDs))
	seen := make(map[snowflake.ID]struct{}, len(planIDs))

	for _, raw := range planIDs {
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		plan, err := s.loadPlan(ctx, id)
		if err != nil {
			return nil, err
		}

		total = total.Add(plan.Amount())
		if plan.Months > maxMonths {
			maxMonths = plan.Months
		}
		plans = append(plans, *plan)
	}

	return &plandomain.Pricing{
		TotalAmount: total,
		MaxMonths:   maxMonths,
		DueDate:     referenceDate.AddDate(0, maxMonths, 0),
		Plans:       plans,
	}, nil
}

func (s *Service) loadPlan(ctx context.Context, id snowflake.ID) (*plandomain.Plan, error) {
	if cached, ok := s.planCache.Get(id); ok {
		return &cached, nil
	}

	var record plandomain.Plan
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plandomain.ErrNotFound
		}
		return nil, err
	}

	s.planCache.Set(id, record, planCacheTTL)
	return &record, nil
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return 0, plandomain.ErrInvalidID
	}
	return parsed, nil
}
