package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/db"
)

// AccountRepository implements the account repository interface.
// Deletion is a soft delete; every read filters on is_deleted = FALSE, and the
// email unique index covers only non-deleted rows.
type AccountRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(database *db.Database, logger *logrus.Logger) ports.AccountRepository {
	return &AccountRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new account. A duplicate email among non-deleted accounts
// surfaces as a typed duplicate-email error.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, role, email_verified, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.DB.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role,
		a.EmailVerified, a.IsDeleted)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": a.Email}).Debug("db: duplicate email on account create")
			}
			return ports.NewDuplicateEmailError(a.Email)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": a.ID, "email": a.Email}).WithError(err).Error("db: failed to create account")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"account_id": a.ID, "email": a.Email}).Info("db: account created")
	}

	return nil
}

// GetByID retrieves a non-deleted account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var a account.Account
	query := `
		SELECT id, email, password_hash, first_name, last_name, role,
			   email_verified, is_deleted, last_login_at, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND is_deleted = FALSE`

	err := r.db.DB.GetContext(ctx, &a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"account_id": id}).Debug("db: account not found by ID")
			}
			return nil, fmt.Errorf("account with ID %s: %w", id, ports.ErrNotFound)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": id}).WithError(err).Error("db: failed to get account by ID")
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return &a, nil
}

// GetByEmail retrieves a non-deleted account by (normalized) email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	var a account.Account
	query := `
		SELECT id, email, password_hash, first_name, last_name, role,
			   email_verified, is_deleted, last_login_at, created_at, updated_at
		FROM accounts
		WHERE email = $1 AND is_deleted = FALSE`

	err := r.db.DB.GetContext(ctx, &a, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": email}).Debug("db: account not found by email")
			}
			return nil, fmt.Errorf("account with email %s: %w", email, ports.ErrNotFound)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to get account by email")
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return &a, nil
}

// Update updates an existing account
func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
			role = $6, email_verified = $7, last_login_at = $8, updated_at = $9
		WHERE id = $1 AND is_deleted = FALSE`

	result, err := r.db.DB.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role,
		a.EmailVerified, a.LastLoginAt, a.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": a.ID}).WithError(err).Error("db: failed to update account")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": a.ID}).WithError(err).Error("db: failed to get rows affected on update")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": a.ID}).Debug("db: update affected 0 rows - account not found")
		}
		return fmt.Errorf("account with ID %s: %w", a.ID, ports.ErrNotFound)
	}

	return nil
}

// SoftDelete marks an account deleted, keeping the row for history.
// The deleted row no longer occupies the email uniqueness namespace.
func (r *AccountRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE accounts SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": id}).WithError(err).Error("db: failed to soft-delete account")
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": id}).WithError(err).Error("db: failed to get rows affected on delete")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": id}).Debug("db: delete affected 0 rows - account not found")
		}
		return fmt.Errorf("account with ID %s: %w", id, ports.ErrNotFound)
	}

	return nil
}

// List retrieves non-deleted accounts with pagination
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*account.Account, error) {
	var accounts []*account.Account
	query := `
		SELECT id, email, password_hash, first_name, last_name, role,
		       email_verified, is_deleted, last_login_at, created_at, updated_at
		FROM accounts
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	err := r.db.DB.SelectContext(ctx, &accounts, query, limit, offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list accounts")
		}
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

// Count returns the total number of non-deleted accounts
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM accounts WHERE is_deleted = FALSE`

	err := r.db.DB.GetContext(ctx, &count, query)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to count accounts")
		}
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	return count, nil
}
