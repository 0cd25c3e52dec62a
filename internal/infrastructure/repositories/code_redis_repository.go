package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

const (
	// actionCodePrefix prefixes Redis keys for single-use action codes.
	// It's a static prefix and not a credential; silence gosec G101 here.
	actionCodePrefix = "storefront:action_code" //nolint:gosec
)

// ActionCodeRedisRepository stores single-use codes in Redis. Each live code
// has two keys: the record keyed by the code itself, and a pointer keyed by
// account and flow holding the current code string. The pointer enforces at
// most one live code per account per flow; GETDEL on consume makes retirement
// exactly-once.
type ActionCodeRedisRepository struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewActionCodeRedisRepository(redisClient *redis.Client, logger *logrus.Logger) *ActionCodeRedisRepository {
	return &ActionCodeRedisRepository{redisClient: redisClient, logger: logger}
}

// Ensure ActionCodeRedisRepository implements ports.ActionCodeRepository
var _ ports.ActionCodeRepository = (*ActionCodeRedisRepository)(nil)

func (r *ActionCodeRedisRepository) keyByCode(flow account.CodeFlow, code string) string {
	return fmt.Sprintf("%s:%s:code:%s", actionCodePrefix, flow, code)
}

func (r *ActionCodeRedisRepository) keyByAccount(flow account.CodeFlow, accountID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:acct:%s", actionCodePrefix, flow, accountID.String())
}

// Replace stores a fresh code for the account and flow. Any prior live code for
// the same account and flow is deleted in the same transaction.
func (r *ActionCodeRedisRepository) Replace(ctx context.Context, code *account.ActionCode, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("action code already expired")
	}

	b, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("failed to marshal action code: %w", err)
	}

	acctKey := r.keyByAccount(code.Flow, code.AccountID)

	// Look up the previous code for this account and flow so it can be retired
	oldCode, err := r.redisClient.Get(ctx, acctKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to look up previous action code: %w", err)
	}

	pipe := r.redisClient.TxPipeline()
	if err == nil && oldCode != "" {
		pipe.Del(ctx, r.keyByCode(code.Flow, oldCode))
	}
	pipe.Set(ctx, r.keyByCode(code.Flow, code.Code), b, ttl)
	pipe.Set(ctx, acctKey, code.Code, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store action code in redis: %w", err)
	}

	return nil
}

// Consume validates and retires the code in one step. GETDEL guarantees a
// single winner under concurrent calls; everyone else sees the same
// not-found error an unknown code produces.
func (r *ActionCodeRedisRepository) Consume(ctx context.Context, flow account.CodeFlow, code string) (*account.ActionCode, error) {
	b, err := r.redisClient.GetDel(ctx, r.keyByCode(flow, code)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("action code not found or expired: %w", ports.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to consume action code from redis: %w", err)
	}

	var consumed account.ActionCode
	if err := json.Unmarshal(b, &consumed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal action code: %w", err)
	}

	// Drop the pointer key; a stale pointer only wastes a lookup on the next
	// Replace, so a failure here is not fatal
	if err := r.redisClient.Del(ctx, r.keyByAccount(flow, consumed.AccountID)).Err(); err != nil && r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"account_id": consumed.AccountID,
			"flow":       flow,
		}).WithError(err).Warn("redis: failed to delete action code pointer")
	}

	return &consumed, nil
}

// DeleteForAccount retires the live code for the account and flow, if any
func (r *ActionCodeRedisRepository) DeleteForAccount(ctx context.Context, flow account.CodeFlow, accountID uuid.UUID) error {
	acctKey := r.keyByAccount(flow, accountID)

	code, err := r.redisClient.Get(ctx, acctKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up action code for account: %w", err)
	}

	pipe := r.redisClient.TxPipeline()
	pipe.Del(ctx, r.keyByCode(flow, code))
	pipe.Del(ctx, acctKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete action code keys: %w", err)
	}

	return nil
}
