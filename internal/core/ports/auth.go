package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketbay/storefront-api/internal/core/domain/auth"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, accountID uuid.UUID, token string) error
	GenerateTokens(ctx context.Context, accountID uuid.UUID, email string, role string) (*auth.AuthTokens, error)

	// RevokeAccountTokens invalidates every outstanding refresh token for the
	// account, forcing re-authentication everywhere.
	RevokeAccountTokens(ctx context.Context, accountID uuid.UUID) error
	TokenHash(token string) string

	// StartTokenCleanup launches the periodic expired-token sweep; the loop
	// stops when ctx is canceled.
	StartTokenCleanup(ctx context.Context)
}

// TokenRepository defines the interface for refresh token and blacklist storage
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteAccountTokens(ctx context.Context, accountID uuid.UUID) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	BlacklistToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error

	// Cleanup methods for periodic maintenance
	DeleteExpiredRefreshTokens(ctx context.Context) error
	DeleteExpiredBlacklistedTokens(ctx context.Context) error
}

// RefreshToken represents a stored refresh token. Only the SHA-256 hash of the
// presented token is persisted.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AccountID uuid.UUID `json:"account_id" db:"account_id"`
	TokenHash string    `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
