package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
)

// AccountRepository defines the interface for account data operations.
// Deletion is a soft delete; reads never return soft-deleted accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	Update(ctx context.Context, a *account.Account) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*account.Account, error)
	Count(ctx context.Context) (int, error)
}

// AccountService defines the interface for account business logic
type AccountService interface {
	Register(ctx context.Context, req *account.RegisterRequest) (*account.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*account.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *account.UpdateProfileRequest) (*account.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListAccounts(ctx context.Context, limit, offset int) ([]*account.Account, int, error)
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error

	// Email verification flow
	StartVerification(ctx context.Context, accountID uuid.UUID) (string, error)
	CompleteVerification(ctx context.Context, code string) (*account.Account, error)
	ResendVerification(ctx context.Context, email string) error

	// Password reset flow
	StartPasswordReset(ctx context.Context, email string) (string, error)
	CompletePasswordReset(ctx context.Context, code, newPassword string) (*account.Account, error)
}
