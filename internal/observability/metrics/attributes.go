package metrics

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

var sensitiveAttributeKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"authorization",
}

// FilterAttributes drops attributes with sensitive keys before recording.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		key := strings.ToLower(strings.TrimSpace(string(attr.Key)))
		skip := false
		for _, needle := range sensitiveAttributeKeys {
			if strings.Contains(key, needle) {
				skip = true
				break
			}
		}
		if !skip {
			filtered = append(filtered, attr)
		}
	}
	return filtered
}
