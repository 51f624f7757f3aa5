package domain

import "context"

// Service records audit trail entries. Log is best effort: a failed
// audit write never fails the request that produced it.
type Service interface {
	Log(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any)
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
