package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	impl "github.com/marketbay/storefront-api/internal/application/services"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/test/mocks"
)

func TestAddItem_MergesQuantities(t *testing.T) {
	svc := impl.NewCartService(&mocks.CartRepositoryMock{}, nil)
	accountID := uuid.New()

	_, err := svc.AddItem(context.Background(), accountID, "sku-100", 2)
	require.NoError(t, err)

	c, err := svc.AddItem(context.Background(), accountID, "sku-100", 3)
	require.NoError(t, err)

	// Repeated adds for the same product merge into one line
	require.Len(t, c.Items, 1)
	require.Equal(t, "sku-100", c.Items[0].ProductRef)
	require.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddItem_RejectsBadInput(t *testing.T) {
	svc := impl.NewCartService(&mocks.CartRepositoryMock{}, nil)
	accountID := uuid.New()

	for _, tc := range []struct {
		name       string
		productRef string
		quantity   int
	}{
		{"zero quantity", "sku-100", 0},
		{"negative quantity", "sku-100", -4},
		{"empty product ref", "", 1},
		{"whitespace product ref", "   ", 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), accountID, tc.productRef, tc.quantity)
			require.Error(t, err)
			require.True(t, ports.IsKind(err, ports.KindValidation))
		})
	}
}

func TestAddItem_TrimsProductRef(t *testing.T) {
	repo := &mocks.CartRepositoryMock{}
	svc := impl.NewCartService(repo, nil)
	accountID := uuid.New()

	_, err := svc.AddItem(context.Background(), accountID, "  sku-100  ", 1)
	require.NoError(t, err)

	c, err := svc.AddItem(context.Background(), accountID, "sku-100", 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Equal(t, 2, c.Items[0].Quantity)
}

func TestRemoveItem_AbsentLineIsNoOp(t *testing.T) {
	repo := &mocks.CartRepositoryMock{}
	svc := impl.NewCartService(repo, nil)
	accountID := uuid.New()

	_, err := svc.AddItem(context.Background(), accountID, "sku-100", 2)
	require.NoError(t, err)

	c, err := svc.RemoveItem(context.Background(), accountID, "sku-999")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)

	c, err = svc.RemoveItem(context.Background(), accountID, "sku-100")
	require.NoError(t, err)
	require.Empty(t, c.Items)
}

func TestClearCart(t *testing.T) {
	repo := &mocks.CartRepositoryMock{}
	svc := impl.NewCartService(repo, nil)
	accountID := uuid.New()

	_, err := svc.AddItem(context.Background(), accountID, "sku-100", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), accountID, "sku-200", 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(context.Background(), accountID))

	c, err := svc.GetCart(context.Background(), accountID)
	require.NoError(t, err)
	require.Empty(t, c.Items)
}
