package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/cart"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// loadFullListWithSingleflight coalesces a full-list load using singleflight, caches the
// full list and optional count, and returns the list. The loader should fetch the
// complete list when called.
func loadFullListWithSingleflight[T any](cache ports.Cache, ctx context.Context, sfKey, listKey, countKey string, ttl time.Duration, loader func() ([]T, error)) ([]T, error) {
	if cache != nil {
		if v, ok := cacheGet[[]T](cache, ctx, listKey); ok {
			return *v, nil
		}
	}
	res, err, _ := sf.Do(sfKey, func() (any, error) {
		if cache != nil {
			if v, ok := cacheGet[[]T](cache, ctx, listKey); ok {
				return *v, nil
			}
		}
		all, err := loader()
		if err != nil {
			return nil, err
		}
		if cache != nil {
			cacheSetSilently(cache, ctx, listKey, all, ttl)
			if countKey != "" {
				cacheSetSilently(cache, ctx, countKey, len(all), ttl)
			}
		}
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	all, ok := res.([]T)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return all, nil
}

// CachingAccountRepository decorates an AccountRepository with cache-aside on
// GetByID and GetByEmail (short TTL expected). Password hashes ride along in
// the cached value; the cache namespace is private to the service.
type CachingAccountRepository struct {
	inner ports.AccountRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingAccountRepository(inner ports.AccountRepository, cache ports.Cache, ttl time.Duration) ports.AccountRepository {
	return &CachingAccountRepository{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachingAccountRepository) Create(ctx context.Context, a *account.Account) error {
	if err := c.inner.Create(ctx, a); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, "accounts:all")
		_ = c.cache.Delete(ctx, "accounts:count")
	}
	return nil
}

func (c *CachingAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if v, ok := cacheGet[account.Account](c.cache, ctx, "account:id:"+id.String()); ok {
		return v, nil
	}
	a, err := c.inner.GetByID(ctx, id)
	if err == nil {
		cacheSetSilently(c.cache, ctx, "account:id:"+id.String(), a, c.ttl)
		cacheSetSilently(c.cache, ctx, "account:email:"+a.Email, a, c.ttl)
	}
	return a, err
}

func (c *CachingAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	if v, ok := cacheGet[account.Account](c.cache, ctx, "account:email:"+email); ok {
		return v, nil
	}
	a, err := c.inner.GetByEmail(ctx, email)
	if err == nil {
		cacheSetSilently(c.cache, ctx, "account:email:"+email, a, c.ttl)
		cacheSetSilently(c.cache, ctx, "account:id:"+a.ID.String(), a, c.ttl)
	}
	return a, err
}

func (c *CachingAccountRepository) Update(ctx context.Context, a *account.Account) error {
	if err := c.inner.Update(ctx, a); err != nil {
		return err
	}
	cacheSetSilently(c.cache, ctx, "account:id:"+a.ID.String(), a, c.ttl)
	cacheSetSilently(c.cache, ctx, "account:email:"+a.Email, a, c.ttl)
	if c.cache != nil {
		_ = c.cache.Delete(ctx, "accounts:all")
		_ = c.cache.Delete(ctx, "accounts:count")
	}
	return nil
}

func (c *CachingAccountRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	// Need current to delete email key
	current, _ := c.inner.GetByID(ctx, id)
	if err := c.inner.SoftDelete(ctx, id); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, "account:id:"+id.String())
		if current != nil {
			_ = c.cache.Delete(ctx, "account:email:"+current.Email)
		}
		_ = c.cache.Delete(ctx, "accounts:all")
		_ = c.cache.Delete(ctx, "accounts:count")
	}
	return nil
}

func (c *CachingAccountRepository) List(ctx context.Context, limit, offset int) ([]*account.Account, error) {
	loader := func() ([]*account.Account, error) {
		cnt, err := c.inner.Count(ctx)
		if err != nil {
			return nil, err
		}
		return c.inner.List(ctx, cnt, 0)
	}
	all, err := loadFullListWithSingleflight(c.cache, ctx, "accounts:all", "accounts:all", "accounts:count", c.ttl, loader)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return []*account.Account{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (c *CachingAccountRepository) Count(ctx context.Context) (int, error) {
	if c.cache != nil {
		if v, ok := cacheGet[int](c.cache, ctx, "accounts:count"); ok {
			return *v, nil
		}
		if v, ok := cacheGet[[]*account.Account](c.cache, ctx, "accounts:all"); ok {
			return len(*v), nil
		}
	}
	cnt, err := c.inner.Count(ctx)
	if err == nil && c.cache != nil {
		cacheSetSilently(c.cache, ctx, "accounts:count", cnt, c.ttl)
	}
	return cnt, err
}

// CachingCartRepository caches the assembled cart per account. Writes
// invalidate the cached cart rather than refreshing it: two racing writes
// could otherwise leave the earlier read-back cached for a full TTL. The next
// Get re-fills from the authoritative store.
type CachingCartRepository struct {
	inner ports.CartRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingCartRepository(inner ports.CartRepository, cache ports.Cache, ttl time.Duration) ports.CartRepository {
	return &CachingCartRepository{inner: inner, cache: cache, ttl: ttl}
}

func cartKey(accountID uuid.UUID) string {
	return "cart:account:" + accountID.String()
}

func (c *CachingCartRepository) Get(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error) {
	if v, ok := cacheGet[cart.Cart](c.cache, ctx, cartKey(accountID)); ok {
		return v, nil
	}
	ct, err := c.inner.Get(ctx, accountID)
	if err == nil {
		cacheSetSilently(c.cache, ctx, cartKey(accountID), ct, c.ttl)
	}
	return ct, err
}

func (c *CachingCartRepository) AddItem(ctx context.Context, accountID uuid.UUID, productRef string, quantity int) (*cart.Cart, error) {
	ct, err := c.inner.AddItem(ctx, accountID, productRef, quantity)
	if c.cache != nil {
		_ = c.cache.Delete(ctx, cartKey(accountID))
	}
	if err != nil {
		return nil, err
	}
	return ct, nil
}

func (c *CachingCartRepository) RemoveItem(ctx context.Context, accountID uuid.UUID, productRef string) (*cart.Cart, error) {
	ct, err := c.inner.RemoveItem(ctx, accountID, productRef)
	if c.cache != nil {
		_ = c.cache.Delete(ctx, cartKey(accountID))
	}
	if err != nil {
		return nil, err
	}
	return ct, nil
}

func (c *CachingCartRepository) Clear(ctx context.Context, accountID uuid.UUID) error {
	if err := c.inner.Clear(ctx, accountID); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, cartKey(accountID))
	}
	return nil
}

// Simple validation to ensure decorators implement interfaces at compile time
var _ ports.AccountRepository = (*CachingAccountRepository)(nil)
var _ ports.CartRepository = (*CachingCartRepository)(nil)

// singleflight group for coalescing cache-miss loads in-process
var sf singleflight.Group
