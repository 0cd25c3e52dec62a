package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/db"
)

func newAccountRepoWithMock(t *testing.T) (ports.AccountRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	database := &db.Database{DB: sqlx.NewDb(mockDB, "sqlmock")}
	return NewAccountRepository(database, nil), mock
}

func accountRows(a *account.Account) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "role",
		"email_verified", "is_deleted", "last_login_at", "created_at", "updated_at",
	}).AddRow(a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role,
		a.EmailVerified, a.IsDeleted, a.LastLoginAt, a.CreatedAt, a.UpdatedAt)
}

func sampleAccount() *account.Account {
	return &account.Account{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: "$2a$04$fakehash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         account.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestAccountRepository_Create(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	a := sampleAccount()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+accounts\s*\(id,\s*email,\s*password_hash,.*\)\s+VALUES`).
		WithArgs(a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role, a.EmailVerified, a.IsDeleted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	a := sampleAccount()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+accounts`).
		WithArgs(a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role, a.EmailVerified, a.IsDeleted).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_accounts_email_live"})

	err := repo.Create(context.Background(), a)
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindDuplicateEmail))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByID_FiltersDeleted(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	a := sampleAccount()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s+AND\s+is_deleted\s*=\s*FALSE`).
		WithArgs(a.ID).
		WillReturnRows(accountRows(a))

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, a.Email, got.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), id)
	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	a := sampleAccount()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s+AND\s+is_deleted\s*=\s*FALSE`).
		WithArgs(a.Email).
		WillReturnRows(accountRows(a))

	got, err := repo.GetByEmail(context.Background(), a.Email)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_NotFound(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	a := sampleAccount()

	mock.ExpectExec(`(?s)^\s*UPDATE\s+accounts\s+SET\s+email\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s+AND\s+is_deleted\s*=\s*FALSE`).
		WithArgs(a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role, a.EmailVerified, a.LastLoginAt, a.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), a)
	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SoftDelete(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`(?s)^\s*UPDATE\s+accounts\s+SET\s+is_deleted\s*=\s*TRUE,.*WHERE\s+id\s*=\s*\$1\s+AND\s+is_deleted\s*=\s*FALSE`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SoftDelete_AlreadyDeleted(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`(?s)^\s*UPDATE\s+accounts\s+SET\s+is_deleted\s*=\s*TRUE`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), id)
	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Count(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)

	mock.ExpectQuery(`(?s)^\s*SELECT\s+COUNT\(\*\)\s+FROM\s+accounts\s+WHERE\s+is_deleted\s*=\s*FALSE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, count)

	require.NoError(t, mock.ExpectationsWereMet())
}
