package boxaction

import (
	"github.com/smallbiznis/cablebill/internal/boxaction/service"
	"go.uber.org/fx"
)

// Module wires the box action service.
var Module = fx.Module("boxaction",
	fx.Provide(service.NewService),
)
