package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketbay/storefront-api/internal/core/domain/cart"
)

// CartRepository defines the interface for cart persistence. AddItem must be
// atomic per (account, product reference): concurrent calls merge quantities
// without losing an update.
type CartRepository interface {
	Get(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error)
	AddItem(ctx context.Context, accountID uuid.UUID, productRef string, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, accountID uuid.UUID, productRef string) (*cart.Cart, error)
	Clear(ctx context.Context, accountID uuid.UUID) error
}

// CartService defines the interface for cart business logic
type CartService interface {
	GetCart(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error)
	AddItem(ctx context.Context, accountID uuid.UUID, productRef string, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, accountID uuid.UUID, productRef string) (*cart.Cart, error)
	ClearCart(ctx context.Context, accountID uuid.UUID) error
}
