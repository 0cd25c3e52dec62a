package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/db"
)

func newTokenRepoWithMock(t *testing.T) (ports.TokenRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	database := &db.Database{DB: sqlx.NewDb(mockDB, "sqlmock")}
	return NewTokenRepository(database, nil), mock
}

func TestTokenRepository_StoreRefreshToken_PersistsDigestNotRawToken(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)
	accountID := uuid.New()
	rawToken := "raw-refresh-token"

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+refresh_tokens\s*\(id,\s*account_id,\s*token_hash,\s*expires_at,\s*created_at\)`).
		WithArgs(sqlmock.AnyArg(), accountID, hashToken(rawToken), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.StoreRefreshToken(context.Background(), accountID, rawToken, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetRefreshToken_LooksUpByDigest(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)
	accountID := uuid.New()
	rawToken := "raw-refresh-token"
	expiresAt := time.Now().Add(time.Hour)

	mock.ExpectQuery(`(?s)^\s*SELECT\s+id,\s*account_id,\s*token_hash,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+token_hash\s*=\s*\$1\s+AND\s+expires_at\s*>\s*NOW\(\)`).
		WithArgs(hashToken(rawToken)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "token_hash", "expires_at", "created_at"}).
			AddRow(uuid.New(), accountID, hashToken(rawToken), expiresAt, time.Now()))

	stored, err := repo.GetRefreshToken(context.Background(), rawToken)
	require.NoError(t, err)
	require.Equal(t, accountID, stored.AccountID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetRefreshToken_NotFound(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)

	mock.ExpectQuery(`(?s)^\s*SELECT\s+id,.*FROM\s+refresh_tokens`).
		WithArgs(hashToken("unknown")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetRefreshToken(context.Background(), "unknown")
	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_BlacklistToken_IdempotentInsert(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)
	accountID := uuid.New()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+blacklisted_tokens\s*\(id,\s*account_id,\s*token_hash,\s*expires_at,\s*created_at,\s*reason\).*ON\s+CONFLICT\s*\(token_hash\)\s+DO\s+NOTHING`).
		WithArgs(sqlmock.AnyArg(), accountID, hashToken("access-token"), sqlmock.AnyArg(), sqlmock.AnyArg(), "logout").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.BlacklistToken(context.Background(), accountID, "access-token", time.Now().Add(15*time.Minute))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_IsTokenBlacklisted(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)

	mock.ExpectQuery(`(?s)^\s*SELECT\s+COUNT\(\*\)\s+FROM\s+blacklisted_tokens\s+WHERE\s+token_hash\s*=\s*\$1\s+AND\s+expires_at\s*>\s*NOW\(\)`).
		WithArgs(hashToken("revoked")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	blacklisted, err := repo.IsTokenBlacklisted(context.Background(), "revoked")
	require.NoError(t, err)
	require.True(t, blacklisted)

	mock.ExpectQuery(`(?s)^\s*SELECT\s+COUNT\(\*\)\s+FROM\s+blacklisted_tokens`).
		WithArgs(hashToken("live")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	blacklisted, err = repo.IsTokenBlacklisted(context.Background(), "live")
	require.NoError(t, err)
	require.False(t, blacklisted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteAccountTokens(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)
	accountID := uuid.New()

	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+account_id\s*=\s*\$1`).
		WithArgs(accountID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+blacklisted_tokens\s+WHERE\s+account_id\s*=\s*\$1`).
		WithArgs(accountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteAccountTokens(context.Background(), accountID))
	require.NoError(t, mock.ExpectationsWereMet())
}
