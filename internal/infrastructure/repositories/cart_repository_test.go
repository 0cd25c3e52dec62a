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

func newCartRepoWithMock(t *testing.T) (ports.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	database := &db.Database{DB: sqlx.NewDb(mockDB, "sqlmock")}
	return NewCartRepository(database, nil), mock
}

func cartItemRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{"product_ref", "quantity", "added_at", "updated_at"})
}

func TestCartRepository_Get(t *testing.T) {
	repo, mock := newCartRepoWithMock(t)
	accountID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+product_ref,\s*quantity,\s*added_at,\s*updated_at\s+FROM\s+cart_items\s+WHERE\s+account_id\s*=\s*\$1\s+ORDER\s+BY\s+added_at\s+ASC`).
		WithArgs(accountID).
		WillReturnRows(cartItemRows(t).
			AddRow("sku-100", 2, now, now).
			AddRow("sku-200", 1, now, now))

	c, err := repo.Get(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, accountID, c.AccountID)
	require.Len(t, c.Items, 2)
	require.Equal(t, "sku-100", c.Items[0].ProductRef)
	require.Equal(t, 2, c.Items[0].Quantity)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Get_EmptyCart(t *testing.T) {
	repo, mock := newCartRepoWithMock(t)
	accountID := uuid.New()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+product_ref.*FROM\s+cart_items`).
		WithArgs(accountID).
		WillReturnRows(cartItemRows(t))

	c, err := repo.Get(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, accountID, c.AccountID)
	require.Empty(t, c.Items)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_AddItem_UpsertMergesQuantity(t *testing.T) {
	repo, mock := newCartRepoWithMock(t)
	accountID := uuid.New()
	now := time.Now()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+cart_items\s*\(account_id,\s*product_ref,\s*quantity\).*ON\s+CONFLICT\s*\(account_id,\s*product_ref\).*DO\s+UPDATE\s+SET\s+quantity\s*=\s*cart_items\.quantity\s*\+\s*EXCLUDED\.quantity`).
		WithArgs(accountID, "sku-100", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)^\s*SELECT\s+product_ref.*FROM\s+cart_items`).
		WithArgs(accountID).
		WillReturnRows(cartItemRows(t).AddRow("sku-100", 5, now, now))

	c, err := repo.AddItem(context.Background(), accountID, "sku-100", 3)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Equal(t, 5, c.Items[0].Quantity)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_RemoveItem(t *testing.T) {
	repo, mock := newCartRepoWithMock(t)
	accountID := uuid.New()

	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+cart_items\s+WHERE\s+account_id\s*=\s*\$1\s+AND\s+product_ref\s*=\s*\$2`).
		WithArgs(accountID, "sku-100").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)^\s*SELECT\s+product_ref.*FROM\s+cart_items`).
		WithArgs(accountID).
		WillReturnRows(cartItemRows(t))

	c, err := repo.RemoveItem(context.Background(), accountID, "sku-100")
	require.NoError(t, err)
	require.Empty(t, c.Items)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_RemoveItem_AbsentLineIsNoOp(t *testing.T) {
	repo, mock := newCartRepoWithMock(t)
	accountID := uuid.New()

	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+cart_items\s+WHERE\s+account_id\s*=\s*\$1\s+AND\s+product_ref\s*=\s*\$2`).
		WithArgs(accountID, "sku-999").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)^\s*SELECT\s+product_ref.*FROM\s+cart_items`).
		WithArgs(accountID).
		WillReturnRows(cartItemRows(t))

	_, err := repo.RemoveItem(context.Background(), accountID, "sku-999")
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Clear(t *testing.T) {
	repo, mock := newCartRepoWithMock(t)
	accountID := uuid.New()

	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+cart_items\s+WHERE\s+account_id\s*=\s*\$1$`).
		WithArgs(accountID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Clear(context.Background(), accountID))
	require.NoError(t, mock.ExpectationsWereMet())
}
