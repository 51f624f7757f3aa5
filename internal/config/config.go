// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Environment string
	HTTPAddr    string
	DatabaseDSN string

	SeedDefaultPlans bool

	TracingEnabled          bool
	TracingExporterEndpoint string
	TracingExporterProtocol string
	TracingSamplingRatio    float64

	MetricsEnabled bool
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment, honouring a local .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: envString("CABLEBILL_ENVIRONMENT", "development"),
		HTTPAddr:    envString("CABLEBILL_HTTP_ADDR", ":8080"),
		DatabaseDSN: envString("CABLEBILL_DATABASE_DSN",
			"host=localhost user=cablebill password=cablebill dbname=cablebill port=5432 sslmode=disable"),

		SeedDefaultPlans: envBool("CABLEBILL_SEED_DEFAULT_PLANS", true),

		TracingEnabled:          envBool("CABLEBILL_TRACING_ENABLED", false),
		TracingExporterEndpoint: envString("CABLEBILL_TRACING_ENDPOINT", "localhost:4317"),
		TracingExporterProtocol: envString("CABLEBILL_TRACING_PROTOCOL", "grpc"),
		TracingSamplingRatio:    envFloat("CABLEBILL_TRACING_SAMPLING_RATIO", 1.0),

		MetricsEnabled: envBool("CABLEBILL_METRICS_ENABLED", true),
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
