// Package seed bootstraps the default plan catalog on startup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	plandomain "github.com/smallbiznis/cablebill/internal/plan/domain"
	"gorm.io/gorm"
)

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

// defaultPlans is the starter catalog for a fresh install. Codes are
// stable; existing rows are never overwritten.
var defaultPlans = []plandomain.Plan{
	{Code: "BASIC-M", Name: "Basic Monthly", Price: decimal.RequireFromString("100.00"), Months: 1},
	{Code: "STANDARD-M", Name: "Standard Monthly", Price: decimal.RequireFromString("150.00"), Months: 1},
	{Code: "PREMIUM-M", Name: "Premium Monthly", Price: decimal.RequireFromString("250.00"), Months: 1},
	{Code: "STANDARD-Q", Name: "Standard Quarterly", Price: decimal.RequireFromString("150.00"), DiscountedPrice: decimalPtr("135.00"), Months: 3},
	{Code: "PREMIUM-Y", Name: "Premium Yearly", Price: decimal.RequireFromString("250.00"), DiscountedPrice: decimalPtr("200.00"), Months: 12},
}

// EnsureDefaultPlans inserts the default catalog, skipping any code that
// already exists.
func EnsureDefaultPlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, plan := range defaultPlans {
			var count int64
			if err := tx.WithContext(ctx).
				Model(&plandomain.Plan{}).
				Where("code = ?", plan.Code).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			plan.ID = node.Generate()
			plan.IsActive = true
			plan.CreatedAt = now
			plan.UpdatedAt = now
			if err := tx.WithContext(ctx).Create(&plan).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
