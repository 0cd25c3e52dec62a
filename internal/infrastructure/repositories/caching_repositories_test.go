package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/marketbay/storefront-api/test/mocks"
)

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestCachingCartRepository_WritesInvalidateCachedCart(t *testing.T) {
	cache := newMemCache()
	repo := NewCachingCartRepository(&mocks.CartRepositoryMock{}, cache, 5*time.Minute)
	accountID := uuid.New()

	_, err := repo.AddItem(context.Background(), accountID, "sku-100", 2)
	require.NoError(t, err)
	require.NotContains(t, cache.data, cartKey(accountID))

	// A read fills the cache
	c, err := repo.Get(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, 2, c.Quantity("sku-100"))
	require.Contains(t, cache.data, cartKey(accountID))

	// A write drops the cached snapshot so the next read is authoritative
	_, err = repo.AddItem(context.Background(), accountID, "sku-100", 3)
	require.NoError(t, err)
	require.NotContains(t, cache.data, cartKey(accountID))

	c, err = repo.Get(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, 5, c.Quantity("sku-100"))
}

func TestCachingCartRepository_RemoveAndClearInvalidate(t *testing.T) {
	cache := newMemCache()
	repo := NewCachingCartRepository(&mocks.CartRepositoryMock{}, cache, 5*time.Minute)
	accountID := uuid.New()

	_, err := repo.AddItem(context.Background(), accountID, "sku-100", 1)
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), accountID)
	require.NoError(t, err)
	require.Contains(t, cache.data, cartKey(accountID))

	_, err = repo.RemoveItem(context.Background(), accountID, "sku-100")
	require.NoError(t, err)
	require.NotContains(t, cache.data, cartKey(accountID))

	_, err = repo.Get(context.Background(), accountID)
	require.NoError(t, err)
	require.Contains(t, cache.data, cartKey(accountID))

	require.NoError(t, repo.Clear(context.Background(), accountID))
	require.NotContains(t, cache.data, cartKey(accountID))
}
