package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	config "github.com/marketbay/storefront-api/configs"
	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/utils"
)

type AccountService struct {
	repo         ports.AccountRepository
	codeRepo     ports.ActionCodeRepository
	tokenRepo    ports.TokenRepository
	emailService ports.EmailService
	hasher       ports.PasswordHasher
	codeConfig   *config.CodeConfig
	logger       *logrus.Logger
}

func NewAccountService(repo ports.AccountRepository, codeRepo ports.ActionCodeRepository, tokenRepo ports.TokenRepository, emailService ports.EmailService, hasher ports.PasswordHasher, codeConfig *config.CodeConfig, logger *logrus.Logger) ports.AccountService {
	return &AccountService{
		repo:         repo,
		codeRepo:     codeRepo,
		tokenRepo:    tokenRepo,
		emailService: emailService,
		hasher:       hasher,
		codeConfig:   codeConfig,
		logger:       logger,
	}
}

// Register creates a new account. The secret is hashed here, at the one call
// site where it is first set; the repository never hashes on save.
func (s *AccountService) Register(ctx context.Context, req *account.RegisterRequest) (*account.Account, error) {
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, ports.NewValidationError(err.Error())
	}

	email := account.NormalizeEmail(req.Email)
	if email == "" {
		return nil, ports.NewValidationError("email is required")
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ports.NewDuplicateEmailError(email)
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, ports.NewStorageError(err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, ports.NewInternalError("failed to hash password", err)
	}

	newAccount := &account.Account{
		ID:            uuid.New(),
		Email:         email,
		PasswordHash:  hashed,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          account.RoleUser,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, newAccount); err != nil {
		if ports.IsKind(err, ports.KindDuplicateEmail) {
			return nil, err
		}
		return nil, ports.NewStorageError(err)
	}

	// Send verification email; registration succeeds regardless
	if _, err := s.StartVerification(ctx, newAccount.ID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"account_id": newAccount.ID,
			"email":      newAccount.Email,
		}).WithError(err).Warn("failed to start email verification")
	}

	return newAccount, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.repo.GetByEmail(ctx, account.NormalizeEmail(email))
}

func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, req *account.UpdateProfileRequest) (*account.Account, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		existing.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		existing.LastName = *req.LastName
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, ports.NewStorageError(err)
	}

	return existing, nil
}

// DeleteAccount soft-deletes the account and revokes its tokens. The row is
// kept to preserve referential history.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if s.tokenRepo != nil {
		if err := s.tokenRepo.DeleteAccountTokens(ctx, id); err != nil {
			s.logger.WithFields(logrus.Fields{"account_id": id}).WithError(err).Warn("failed to delete tokens during account deletion")
		}
	}

	return s.repo.SoftDelete(ctx, id)
}

func (s *AccountService) ListAccounts(ctx context.Context, limit, offset int) ([]*account.Account, int, error) {
	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return accounts, count, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(oldPassword, found.PasswordHash) {
		return ports.ErrInvalidCredentials()
	}

	if err := utils.ValidatePasswordStrength(newPassword); err != nil {
		return ports.NewValidationError(err.Error())
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return ports.NewInternalError("failed to hash password", err)
	}

	found.PasswordHash = hashed
	found.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, found); err != nil {
		return ports.NewStorageError(err)
	}

	// Invalidate outstanding refresh tokens so the old credential cannot
	// keep minting access tokens
	if s.tokenRepo != nil {
		if err := s.tokenRepo.DeleteAccountTokens(ctx, id); err != nil {
			s.logger.WithFields(logrus.Fields{"account_id": id}).WithError(err).Warn("failed to delete tokens after password change")
		}
	}

	return nil
}

// generateCode generates a secure random single-use code
func (s *AccountService) generateCode() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// issueCode creates and stores a code for the flow, replacing any live code
// for the same account and flow.
func (s *AccountService) issueCode(ctx context.Context, accountID uuid.UUID, flow account.CodeFlow, ttl time.Duration) (string, error) {
	codeStr, err := s.generateCode()
	if err != nil {
		return "", ports.NewInternalError("failed to generate code", err)
	}

	code := &account.ActionCode{
		AccountID: accountID,
		Flow:      flow,
		Code:      codeStr,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	if err := s.codeRepo.Replace(ctx, code, ttl); err != nil {
		return "", ports.NewStorageError(err)
	}

	return codeStr, nil
}

// StartVerification issues a fresh verification code for the account and
// emails it. Any prior unconsumed verification code is invalidated.
func (s *AccountService) StartVerification(ctx context.Context, accountID uuid.UUID) (string, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	if acc.EmailVerified {
		return "", ports.NewValidationError("email already verified")
	}

	code, err := s.issueCode(ctx, accountID, account.FlowEmailVerification, s.codeConfig.VerificationTTL)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s %s", acc.FirstName, acc.LastName)
	if err := s.emailService.SendVerificationEmail(ctx, acc.Email, code, name); err != nil {
		return "", ports.NewInternalError("failed to send verification email", err)
	}

	return code, nil
}

// CompleteVerification consumes the code and marks the owning account's email
// as verified. The code is retired whether or not the account update succeeds.
// Unknown, expired and consumed codes share one outcome; a code store outage
// is a storage error, not an invalid code.
func (s *AccountService) CompleteVerification(ctx context.Context, code string) (*account.Account, error) {
	consumed, err := s.codeRepo.Consume(ctx, account.FlowEmailVerification, code)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCode()
		}
		return nil, ports.NewStorageError(err)
	}

	acc, err := s.repo.GetByID(ctx, consumed.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCode()
		}
		return nil, ports.NewStorageError(err)
	}

	acc.EmailVerified = true
	acc.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, ports.NewStorageError(err)
	}

	return acc, nil
}

// ResendVerification issues a fresh code for an unverified account by email.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	acc, err := s.repo.GetByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		return err
	}

	if acc.EmailVerified {
		return ports.NewValidationError("email already verified")
	}

	_, err = s.StartVerification(ctx, acc.ID)
	return err
}

// StartPasswordReset issues a reset code for the account behind email and
// sends it. The reset flow has its own code namespace and lifetime; a live
// verification code is unaffected.
func (s *AccountService) StartPasswordReset(ctx context.Context, email string) (string, error) {
	acc, err := s.repo.GetByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		return "", err
	}

	code, err := s.issueCode(ctx, acc.ID, account.FlowPasswordReset, s.codeConfig.PasswordResetTTL)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s %s", acc.FirstName, acc.LastName)
	if err := s.emailService.SendPasswordResetEmail(ctx, acc.Email, code, name); err != nil {
		return "", ports.NewInternalError("failed to send password reset email", err)
	}

	return code, nil
}

// CompletePasswordReset consumes the reset code, hashes and stores the new
// secret, and revokes all refresh tokens for the account.
func (s *AccountService) CompletePasswordReset(ctx context.Context, code, newPassword string) (*account.Account, error) {
	if err := utils.ValidatePasswordStrength(newPassword); err != nil {
		return nil, ports.NewValidationError(err.Error())
	}

	consumed, err := s.codeRepo.Consume(ctx, account.FlowPasswordReset, code)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCode()
		}
		return nil, ports.NewStorageError(err)
	}

	acc, err := s.repo.GetByID(ctx, consumed.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCode()
		}
		return nil, ports.NewStorageError(err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, ports.NewInternalError("failed to hash password", err)
	}

	acc.PasswordHash = hashed
	acc.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, ports.NewStorageError(err)
	}

	if s.tokenRepo != nil {
		if err := s.tokenRepo.DeleteAccountTokens(ctx, acc.ID); err != nil {
			s.logger.WithFields(logrus.Fields{"account_id": acc.ID}).WithError(err).Warn("failed to delete tokens after password reset")
		}
	}

	return acc, nil
}
