package payment

import (
	"github.com/smallbiznis/cablebill/internal/payment/service"
	"go.uber.org/fx"
)

// Module wires the payment service.
var Module = fx.Module("payment",
	fx.Provide(service.NewService),
)
