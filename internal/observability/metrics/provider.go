package metrics

import (
	"context"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewMeterProvider builds a meter provider backed by the default Prometheus
// registry so OTel instruments and the billing counters share one scrape
// endpoint. Disabled metrics fall back to a no-op provider.
func NewMeterProvider(lc fx.Lifecycle, enabled bool, log *zap.Logger) (metric.MeterProvider, error) {
	if !enabled {
		return noopmetric.NewMeterProvider(), nil
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	return provider, nil
}
