// Package metrics exposes service metrics instruments.
package metrics

// Config carries the constant labels attached to every metric.
type Config struct {
	ServiceName string
	Environment string
}
