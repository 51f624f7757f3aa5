// Package observability wires logging, tracing and metrics into the app.
package observability

import (
	"github.com/smallbiznis/cablebill/internal/config"
	"github.com/smallbiznis/cablebill/internal/observability/logger"
	"github.com/smallbiznis/cablebill/internal/observability/metrics"
	"github.com/smallbiznis/cablebill/internal/observability/tracing"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(logger.New),
	fx.Provide(tracing.NewProvider),
	fx.Provide(func(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (metric.MeterProvider, error) {
		return metrics.NewMeterProvider(lc, cfg.MetricsEnabled, log)
	}),
	fx.Provide(func(cfg config.Config, provider metric.MeterProvider) (*metrics.HTTPMetrics, error) {
		return metrics.NewHTTPMetrics(metrics.Config{
			ServiceName: "cablebill",
			Environment: cfg.Environment,
		}, provider)
	}),
	fx.Provide(func(cfg config.Config) *metrics.BillingMetrics {
		return metrics.BillingWithConfig(metrics.Config{
			ServiceName: "cablebill",
			Environment: cfg.Environment,
		})
	}),
	// Force provider construction even when nothing injects it directly.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
