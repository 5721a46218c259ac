package ports

import (
	"context"

	"github.com/avatarctic/recipe-submissions/internal/core/domain/audit"
)

// AuditRepository defines the interface for auth event data operations
type AuditRepository interface {
	Create(ctx context.Context, event *audit.AuthEvent) error
	List(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, error)
	Count(ctx context.Context, filter *audit.AuthEventFilter) (int, error)
}

// AuditService records and lists sign-in lifecycle events
type AuditService interface {
	Record(ctx context.Context, req *audit.RecordAuthEventRequest) error
	ListEvents(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, int, error)
}
