// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementWithinLimitScript checks and increments a counter in one round trip.
//
// KEYS[1] counter key, ARGV[1] limit, ARGV[2] window in ms, ARGV[3] "1" to refresh the TTL.
// Returns {count, allowed}.
var incrementWithinLimitScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return {current, 0}
end
local count = redis.call('INCR', KEYS[1])
if ARGV[3] == '1' or count == 1 or redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {count, 1}
`)

// RedisTokenStore implements [TokenStore] using Redis.
type RedisTokenStore struct {
	client redis.UniversalClient
}

// NewTokenStore creates a new Redis-backed [TokenStore].
func NewTokenStore(client redis.UniversalClient) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

/*
Get retrieves the value stored under key.

Returns:
  - string: Stored value
  - error: [ErrKeyNotFound] or connectivity errors
*/
func (store *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	value, err := store.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("redis_token_store_get_failed: %w", err)
	}
	return value, nil
}

// SetWithExpiry stores value under key with the given TTL.
func (store *RedisTokenStore) SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis_token_store_set_failed: non-positive ttl %s", ttl)
	}
	if err := store.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_store_set_failed: %w", err)
	}
	return nil
}

/*
GetAndDelete atomically reads and removes key with GETDEL, so concurrent
consumers of the same key can never both observe its value.

Returns:
  - string: Removed value
  - error: [ErrKeyNotFound] or connectivity errors
*/
func (store *RedisTokenStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	value, err := store.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("redis_token_store_getdel_failed: %w", err)
	}
	return value, nil
}

// Delete removes key.
func (store *RedisTokenStore) Delete(ctx context.Context, key string) error {
	if err := store.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_token_store_delete_failed: %w", err)
	}
	return nil
}

// IncrementWithinLimit runs the check-and-increment script.
func (store *RedisTokenStore) IncrementWithinLimit(ctx context.Context, key string, limit int, window time.Duration, refreshTTL bool) (int, bool, error) {
	refresh := "0"
	if refreshTTL {
		refresh = "1"
	}

	result, err := incrementWithinLimitScript.Run(ctx, store.client, []string{key}, limit, window.Milliseconds(), refresh).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("redis_token_store_increment_failed: %w", err)
	}
	if len(result) != 2 {
		return 0, false, fmt.Errorf("redis_token_store_increment_failed: unexpected reply %v", result)
	}

	return int(result[0]), result[1] == 1, nil
}
