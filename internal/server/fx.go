package server

import "go.uber.org/fx"

// Module wires the HTTP server and starts it under the fx lifecycle.
var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Provide(NewEngine),
	fx.Invoke(RunHTTP),
)
