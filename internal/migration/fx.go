package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module runs migrations during application start, before the HTTP
// server accepts traffic.
var Module = fx.Module("migration",
	fx.Invoke(func(db *gorm.DB, log *zap.Logger) error {
		return Run(db, log.Named("migration"))
	}),
)
