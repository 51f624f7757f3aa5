// Package auditcontext carries request attributes the audit trail
// records alongside each entry.
package auditcontext

import "context"

type contextKey string

const (
	ipAddressKey  contextKey = "audit_ip_address"
	userAgentKey  contextKey = "audit_user_agent"
	customerIDKey contextKey = "audit_customer_id"
)

func WithIPAddress(ctx context.Context, ipAddress string) context.Context {
	if ipAddress == "" {
		return ctx
	}
	return context.WithValue(ctx, ipAddressKey, ipAddress)
}

func IPAddressFromContext(ctx context.Context) string {
	value, _ := ctx.Value(ipAddressKey).(string)
	return value
}

func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	if userAgent == "" {
		return ctx
	}
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func UserAgentFromContext(ctx context.Context) string {
	value, _ := ctx.Value(userAgentKey).(string)
	return value
}

func WithCustomerID(ctx context.Context, customerID string) context.Context {
	if customerID == "" {
		return ctx
	}
	return context.WithValue(ctx, customerIDKey, customerID)
}

func CustomerIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(customerIDKey).(string)
	return value
}
