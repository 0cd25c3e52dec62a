package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	config "github.com/marketbay/storefront-api/configs"
	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/auth"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

type AuthService struct {
	accountRepo ports.AccountRepository
	tokenRepo   ports.TokenRepository
	hasher      ports.PasswordHasher
	jwtConfig   *config.JWTConfig
	logger      *logrus.Logger
}

func NewAuthService(accountRepo ports.AccountRepository, tokenRepo ports.TokenRepository, hasher ports.PasswordHasher, jwtConfig *config.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		hasher:      hasher,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// Login verifies the presented secret and mints a token pair. Unknown email
// and wrong password produce the identical invalid-credentials outcome; a
// store failure surfaces as a storage error, never as a credential failure.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error) {
	found, err := s.accountRepo.GetByEmail(ctx, account.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials()
		}
		return nil, ports.NewStorageError(err)
	}

	if !s.hasher.Verify(req.Password, found.PasswordHash) {
		return nil, ports.ErrInvalidCredentials()
	}

	tokens, err := s.GenerateTokens(ctx, found.ID, found.Email, found.Role.String())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	found.LastLoginAt = &now
	if err := s.accountRepo.Update(ctx, found); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"account_id": found.ID}).WithError(err).Warn("failed to update last login time")
		}
	}

	return tokens, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. The
// presented token stays valid until its natural expiry or an explicit
// revocation (logout, password change, RevokeAccountTokens); a successful
// exchange does not retire it.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.NewInvalidTokenError(err)
		}
		return nil, ports.NewStorageError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"account_id": stored.AccountID}).WithError(err).Warn("failed to delete expired refresh token")
			}
		}
		return nil, ports.NewInvalidTokenError(errTokenExpired)
	}

	found, err := s.accountRepo.GetByID(ctx, stored.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.NewInvalidTokenError(err)
		}
		return nil, ports.NewStorageError(err)
	}

	return s.GenerateTokens(ctx, found.ID, found.Email, found.Role.String())
}

// Logout blacklists the presented access token for its remaining lifetime and
// drops all refresh tokens for the account.
func (s *AuthService) Logout(ctx context.Context, accountID uuid.UUID, token string) error {
	expiresAt := time.Now().Add(s.jwtConfig.AccessTokenTTL)
	if err := s.tokenRepo.BlacklistToken(ctx, accountID, token, expiresAt); err != nil {
		return ports.NewStorageError(err)
	}

	if err := s.tokenRepo.DeleteAccountTokens(ctx, accountID); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"account_id": accountID}).WithError(err).Warn("failed to delete refresh tokens during logout")
		}
	}

	return nil
}

// RevokeAccountTokens invalidates every outstanding refresh token for the account.
func (s *AuthService) RevokeAccountTokens(ctx context.Context, accountID uuid.UUID) error {
	if err := s.tokenRepo.DeleteAccountTokens(ctx, accountID); err != nil {
		return ports.NewStorageError(err)
	}
	return nil
}

// StartTokenCleanup launches the periodic expired-token sweep. The loop stops
// when ctx is canceled, so the composition root owns its lifetime.
func (s *AuthService) StartTokenCleanup(ctx context.Context) {
	if s.tokenRepo == nil {
		return
	}
	go s.runTokenCleanup(ctx, 6*time.Hour)
}

func (s *AuthService) runTokenCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

		if err := s.tokenRepo.DeleteExpiredRefreshTokens(sweepCtx); err != nil {
			if s.logger != nil {
				s.logger.WithError(err).Error("failed to cleanup expired refresh tokens")
			}
		}

		if err := s.tokenRepo.DeleteExpiredBlacklistedTokens(sweepCtx); err != nil {
			if s.logger != nil {
				s.logger.WithError(err).Error("failed to cleanup expired blacklisted tokens")
			}
		}

		cancel()
	}
}
