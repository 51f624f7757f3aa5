package bill

import (
	"github.com/smallbiznis/cablebill/internal/bill/render"
	"github.com/smallbiznis/cablebill/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(service.NewService),
	fx.Provide(render.NewRenderer),
)
