package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/domain/cart"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

type CartService struct {
	repo   ports.CartRepository
	logger *logrus.Logger
}

func NewCartService(repo ports.CartRepository, logger *logrus.Logger) ports.CartService {
	return &CartService{repo: repo, logger: logger}
}

func (s *CartService) GetCart(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error) {
	c, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, ports.NewStorageError(err)
	}
	return c, nil
}

// AddItem merges quantity into the account's cart line for productRef. The
// repository applies the merge as one atomic upsert, so concurrent calls for
// the same account never lose an update.
func (s *CartService) AddItem(ctx context.Context, accountID uuid.UUID, productRef string, quantity int) (*cart.Cart, error) {
	productRef = strings.TrimSpace(productRef)
	if productRef == "" {
		return nil, ports.NewValidationError("product reference is required")
	}
	if quantity < 1 {
		return nil, ports.NewValidationError("quantity must be at least 1")
	}

	c, err := s.repo.AddItem(ctx, accountID, productRef, quantity)
	if err != nil {
		return nil, ports.NewStorageError(err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"account_id": accountID, "product_ref": productRef, "quantity": quantity}).Debug("cart item merged")
	}

	return c, nil
}

// RemoveItem drops the whole line for productRef. Decrementing below 1 is not
// expressible through AddItem; removal is this distinct operation.
func (s *CartService) RemoveItem(ctx context.Context, accountID uuid.UUID, productRef string) (*cart.Cart, error) {
	productRef = strings.TrimSpace(productRef)
	if productRef == "" {
		return nil, ports.NewValidationError("product reference is required")
	}

	c, err := s.repo.RemoveItem(ctx, accountID, productRef)
	if err != nil {
		return nil, ports.NewStorageError(err)
	}
	return c, nil
}

func (s *CartService) ClearCart(ctx context.Context, accountID uuid.UUID) error {
	if err := s.repo.Clear(ctx, accountID); err != nil {
		return ports.NewStorageError(err)
	}
	return nil
}
