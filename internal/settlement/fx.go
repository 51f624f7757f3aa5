package settlement

import (
	"github.com/smallbiznis/cablebill/internal/settlement/service"
	"go.uber.org/fx"
)

// Module wires the due settlement service.
var Module = fx.Module("settlement",
	fx.Provide(service.NewService),
)
