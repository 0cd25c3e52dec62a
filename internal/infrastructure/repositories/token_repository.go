package repositories

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/db"
)

// TokenRepository stores refresh tokens and the access-token blacklist in
// Postgres. Raw tokens never touch storage: every public method hashes the
// presented token at the boundary and only the SHA-256 digest is persisted.
type TokenRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(database *db.Database, logger *logrus.Logger) ports.TokenRepository {
	return &TokenRepository{db: database, logger: logger}
}

// hashToken returns the hex-encoded SHA-256 digest of a raw token
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// StoreRefreshToken persists a new refresh token for the account
func (r *TokenRepository) StoreRefreshToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, account_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.DB.ExecContext(ctx, query,
		uuid.New(), accountID, hashToken(token), expiresAt, time.Now())
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": accountID}).WithError(err).Error("db: failed to store refresh token")
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken looks up an unexpired refresh token by its raw value
func (r *TokenRepository) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	var refreshToken ports.RefreshToken
	query := `
		SELECT id, account_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()`

	err := r.db.DB.GetContext(ctx, &refreshToken, query, hashToken(token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("refresh token not found or expired: %w", ports.ErrNotFound)
		}
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to get refresh token")
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &refreshToken, nil
}

// DeleteRefreshToken removes a single refresh token by its raw value
func (r *TokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token_hash = $1`

	_, err := r.db.DB.ExecContext(ctx, query, hashToken(token))
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to delete refresh token")
		}
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// DeleteAccountTokens removes every refresh and blacklisted token for an account
func (r *TokenRepository) DeleteAccountTokens(ctx context.Context, accountID uuid.UUID) error {
	refreshQuery := `DELETE FROM refresh_tokens WHERE account_id = $1`
	if _, err := r.db.DB.ExecContext(ctx, refreshQuery, accountID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": accountID}).WithError(err).Error("db: failed to delete account refresh tokens")
		}
		return fmt.Errorf("failed to delete account refresh tokens: %w", err)
	}

	blacklistQuery := `DELETE FROM blacklisted_tokens WHERE account_id = $1`
	if _, err := r.db.DB.ExecContext(ctx, blacklistQuery, accountID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": accountID}).WithError(err).Error("db: failed to delete account blacklisted tokens")
		}
		return fmt.Errorf("failed to delete account blacklisted tokens: %w", err)
	}

	return nil
}

// IsTokenBlacklisted reports whether an access token was revoked before expiry
func (r *TokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM blacklisted_tokens
		WHERE token_hash = $1 AND expires_at > NOW()`

	err := r.db.DB.GetContext(ctx, &count, query, hashToken(token))
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to check token blacklist")
		}
		return false, fmt.Errorf("failed to check if token is blacklisted: %w", err)
	}

	return count > 0, nil
}

// BlacklistToken revokes an access token until its natural expiry. Blacklisting
// the same token twice is a no-op.
func (r *TokenRepository) BlacklistToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO blacklisted_tokens (id, account_id, token_hash, expires_at, created_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token_hash) DO NOTHING`

	_, err := r.db.DB.ExecContext(ctx, query,
		uuid.New(), accountID, hashToken(token), expiresAt, time.Now(), "logout")
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": accountID}).WithError(err).Error("db: failed to blacklist token")
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// DeleteExpiredRefreshTokens removes refresh tokens past their expiry
func (r *TokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) error {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`

	result, err := r.db.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"rows": rowsAffected}).Info("cleaned up expired refresh tokens")
	}

	return nil
}

// DeleteExpiredBlacklistedTokens removes blacklist entries past their expiry
func (r *TokenRepository) DeleteExpiredBlacklistedTokens(ctx context.Context) error {
	query := `DELETE FROM blacklisted_tokens WHERE expires_at <= NOW()`

	result, err := r.db.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to delete expired blacklisted tokens: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"rows": rowsAffected}).Info("cleaned up expired blacklisted tokens")
	}

	return nil
}
