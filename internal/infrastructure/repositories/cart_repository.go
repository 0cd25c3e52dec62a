package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/domain/cart"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/db"
)

// CartRepository implements the cart repository interface. Each cart line is a
// row keyed by (account_id, product_ref); the merge on AddItem happens inside a
// single upsert statement, so concurrent adds for the same product never lose a
// quantity.
type CartRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewCartRepository creates a new cart repository
func NewCartRepository(database *db.Database, logger *logrus.Logger) ports.CartRepository {
	return &CartRepository{
		db:     database,
		logger: logger,
	}
}

// Get retrieves all cart lines for an account. An empty cart is a valid cart.
func (r *CartRepository) Get(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error) {
	var items []cart.Item
	query := `
		SELECT product_ref, quantity, added_at, updated_at
		FROM cart_items
		WHERE account_id = $1
		ORDER BY added_at ASC`

	err := r.db.DB.SelectContext(ctx, &items, query, accountID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": accountID}).WithError(err).Error("db: failed to get cart")
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart.Cart{AccountID: accountID, Items: items}, nil
}

// AddItem merges quantity into the account's line for productRef, creating the
// line when absent. The upsert makes the read-merge-write a single atomic
// statement on the row's unique key.
func (r *CartRepository) AddItem(ctx context.Context, accountID uuid.UUID, productRef string, quantity int) (*cart.Cart, error) {
	query := `
		INSERT INTO cart_items (account_id, product_ref, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, product_ref)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`

	_, err := r.db.DB.ExecContext(ctx, query, accountID, productRef, quantity)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{
				"account_id":  accountID,
				"product_ref": productRef,
			}).WithError(err).Error("db: failed to add cart item")
		}
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return r.Get(ctx, accountID)
}

// RemoveItem deletes the line for productRef. Removing an absent line is a
// no-op, not an error.
func (r *CartRepository) RemoveItem(ctx context.Context, accountID uuid.UUID, productRef string) (*cart.Cart, error) {
	query := `DELETE FROM cart_items WHERE account_id = $1 AND product_ref = $2`

	_, err := r.db.DB.ExecContext(ctx, query, accountID, productRef)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{
				"account_id":  accountID,
				"product_ref": productRef,
			}).WithError(err).Error("db: failed to remove cart item")
		}
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return r.Get(ctx, accountID)
}

// Clear removes every line from the account's cart
func (r *CartRepository) Clear(ctx context.Context, accountID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE account_id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, accountID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": accountID}).WithError(err).Error("db: failed to clear cart")
		}
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
