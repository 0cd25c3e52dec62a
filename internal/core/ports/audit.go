package ports

import (
	"context"

	"github.com/marketbay/storefront-api/internal/core/domain/audit"
)

// AuditRepository defines the interface for audit log storage
type AuditRepository interface {
	Create(ctx context.Context, log *audit.AuditLog) error
	List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error)
}

// AuditService defines the interface for recording auditable actions
type AuditService interface {
	LogAction(ctx context.Context, req *audit.CreateAuditLogRequest) error
	GetLogs(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error)
}
