// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/swifttravel/internal/users/auth"
)

func newRedisStore(t *testing.T) (*auth.RedisTokenStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewTokenStore(client), server
}

/*
TestRedisTokenStore_GetSetDelete covers the basic key lifecycle.
*/
func TestRedisTokenStore_GetSetDelete(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "magic_link:abc")
	assert.ErrorIs(t, err, auth.ErrKeyNotFound)

	require.NoError(t, store.SetWithExpiry(ctx, "magic_link:abc", "payload", 15*time.Minute))
	assert.Equal(t, 15*time.Minute, server.TTL("magic_link:abc"))

	value, err := store.Get(ctx, "magic_link:abc")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)

	require.NoError(t, store.Delete(ctx, "magic_link:abc"))
	assert.False(t, server.Exists("magic_link:abc"))

	assert.Error(t, store.SetWithExpiry(ctx, "magic_link:abc", "payload", 0))
}

/*
TestRedisTokenStore_Expiry drops keys once their TTL elapses.
*/
func TestRedisTokenStore_Expiry(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetWithExpiry(ctx, "revoked_token:jti", "revoked", time.Second))
	server.FastForward(time.Second)

	_, err := store.Get(ctx, "revoked_token:jti")
	assert.ErrorIs(t, err, auth.ErrKeyNotFound)
}

/*
TestRedisTokenStore_GetAndDelete consumes a key exactly once, even under contention.
*/
func TestRedisTokenStore_GetAndDelete(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetWithExpiry(ctx, "magic_link:once", `{"email":"a@example.com"}`, time.Minute))

	const callers = 12
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []string
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if value, err := store.GetAndDelete(ctx, "magic_link:once"); err == nil {
				mu.Lock()
				values = append(values, value)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{`{"email":"a@example.com"}`}, values)
	assert.False(t, server.Exists("magic_link:once"))

	_, err := store.GetAndDelete(ctx, "magic_link:once")
	assert.ErrorIs(t, err, auth.ErrKeyNotFound)
}

/*
TestRedisTokenStore_IncrementWithinLimit never counts past the limit.
*/
func TestRedisTokenStore_IncrementWithinLimit(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()
	key := "rate_limit:magic_link:a@example.com"

	for want := 1; want <= 3; want++ {
		count, allowed, err := store.IncrementWithinLimit(ctx, key, 3, 15*time.Minute, true)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, want, count)
	}

	count, allowed, err := store.IncrementWithinLimit(ctx, key, 3, 15*time.Minute, true)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 3, count)

	value, err := server.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "3", value)
}

/*
TestRedisTokenStore_IncrementWindowModes refreshes the TTL only in refresh mode.
*/
func TestRedisTokenStore_IncrementWindowModes(t *testing.T) {
	tests := []struct {
		name       string
		refreshTTL bool
		wantTTL    time.Duration
	}{
		{"refresh", true, 15 * time.Minute},
		{"fixed", false, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, server := newRedisStore(t)
			ctx := context.Background()
			key := "rate_limit:magic_link:" + tt.name

			_, _, err := store.IncrementWithinLimit(ctx, key, 5, 15*time.Minute, tt.refreshTTL)
			require.NoError(t, err)

			server.FastForward(10 * time.Minute)

			_, _, err = store.IncrementWithinLimit(ctx, key, 5, 15*time.Minute, tt.refreshTTL)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, server.TTL(key))
		})
	}
}

/*
TestRedisTokenStore_IncrementRepairsMissingTTL sets an expiry on counters that lost theirs.
*/
func TestRedisTokenStore_IncrementRepairsMissingTTL(t *testing.T) {
	store, server := newRedisStore(t)
	key := "rate_limit:magic_link:stale"
	require.NoError(t, server.Set(key, "2"))

	count, allowed, err := store.IncrementWithinLimit(context.Background(), key, 5, time.Minute, false)

	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 3, count)
	assert.Equal(t, time.Minute, server.TTL(key))
}

/*
TestRedisTokenStore_ConnectionFailure surfaces errors instead of ErrKeyNotFound.
*/
func TestRedisTokenStore_ConnectionFailure(t *testing.T) {
	store, server := newRedisStore(t)
	server.Close()
	ctx := context.Background()

	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrKeyNotFound)

	_, _, err = store.IncrementWithinLimit(ctx, "k", 1, time.Minute, true)
	assert.Error(t, err)
}
