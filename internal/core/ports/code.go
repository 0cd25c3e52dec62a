package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
)

// ActionCodeRepository stores single-use verification and reset codes.
// Implementations may use Redis or another ephemeral store.
//
// Replace stores a fresh code for the account and flow, discarding any prior
// live code for that same account and flow (at most one live code per account
// per flow). Consume atomically validates and retires the code: exactly one
// caller ever receives the owning record; every later call fails the same way
// as an unknown code.
type ActionCodeRepository interface {
	Replace(ctx context.Context, code *account.ActionCode, ttl time.Duration) error
	Consume(ctx context.Context, flow account.CodeFlow, code string) (*account.ActionCode, error)
	DeleteForAccount(ctx context.Context, flow account.CodeFlow, accountID uuid.UUID) error
}
