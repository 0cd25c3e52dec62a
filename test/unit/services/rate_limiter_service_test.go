package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	impl "github.com/marketbay/storefront-api/internal/application/services"
	"github.com/marketbay/storefront-api/test/mocks"
)

func TestRateLimiter_AllowsUnderBurst(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{}
	svc := impl.NewRateLimiterService(repo, &impl.RateLimiterConfig{
		DefaultRequestsPerMinute: 5,
		BurstMultiplier:          2.0,
		Window:                   time.Minute,
	}, nil)
	accountID := uuid.New()

	// burst = 5 * 2.0 = 10 requests per window
	for i := 0; i < 10; i++ {
		allowed, remaining, limit, _, err := svc.Allow(context.Background(), accountID)
		require.NoError(t, err)
		require.True(t, allowed, "request %d should be allowed", i+1)
		require.Equal(t, 10-(i+1), remaining)
		require.Equal(t, 5, limit)
	}

	allowed, remaining, _, _, err := svc.Allow(context.Background(), accountID)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Zero(t, remaining)
}

func TestRateLimiter_IsolatesAccounts(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{}
	svc := impl.NewRateLimiterService(repo, &impl.RateLimiterConfig{
		DefaultRequestsPerMinute: 1,
		BurstMultiplier:          1.0,
		Window:                   time.Minute,
	}, nil)

	first := uuid.New()
	second := uuid.New()

	allowed, _, _, _, err := svc.Allow(context.Background(), first)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, _, _, err = svc.Allow(context.Background(), first)
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, _, _, _, err = svc.Allow(context.Background(), second)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestRateLimiter_FailsOpenOnStoreError(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, accountID uuid.UUID, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
			return 0, time.Time{}, fmt.Errorf("connection refused")
		},
	}
	svc := impl.NewRateLimiterService(repo, nil, nil)

	allowed, _, _, _, err := svc.Allow(context.Background(), uuid.New())
	require.Error(t, err)
	require.True(t, allowed)
}
