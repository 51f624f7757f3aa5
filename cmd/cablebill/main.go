// @title           Cablebill API
// @version         1.0
// @description     Subscription billing and ledger API

// @host      localhost:8080
// @BasePath  /v1
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cablebill/internal/audit"
	"github.com/smallbiznis/cablebill/internal/bill"
	"github.com/smallbiznis/cablebill/internal/boxaction"
	"github.com/smallbiznis/cablebill/internal/clock"
	"github.com/smallbiznis/cablebill/internal/config"
	"github.com/smallbiznis/cablebill/internal/customer"
	"github.com/smallbiznis/cablebill/internal/events"
	"github.com/smallbiznis/cablebill/internal/events/dispatcher"
	"github.com/smallbiznis/cablebill/internal/ledger"
	"github.com/smallbiznis/cablebill/internal/migration"
	"github.com/smallbiznis/cablebill/internal/numbering"
	"github.com/smallbiznis/cablebill/internal/observability"
	"github.com/smallbiznis/cablebill/internal/payment"
	"github.com/smallbiznis/cablebill/internal/plan"
	"github.com/smallbiznis/cablebill/internal/seed"
	"github.com/smallbiznis/cablebill/internal/server"
	"github.com/smallbiznis/cablebill/internal/settlement"
	"github.com/smallbiznis/cablebill/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(numbering.New),
		db.Module,
		clock.Module,
		migration.Module,

		events.Module,
		dispatcher.Module,
		audit.Module,
		ledger.Module,
		customer.Module,
		plan.Module,
		bill.Module,
		payment.Module,
		settlement.Module,
		boxaction.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			if !cfg.SeedDefaultPlans {
				return nil
			}
			return seed.EnsureDefaultPlans(conn)
		}),

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
