//go:build integration

package locking

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestLocker(t *testing.T, ttl time.Duration) *RedisLocker {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}

	l, err := NewRedisLocker(context.Background(), RedisConfig{URL: url, TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestIntegration_RedisLocker(t *testing.T) {
	l := getTestLocker(t, DefaultTTL)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(t *testing.T, key string)
	}{
		{
			name: "held key blocks a second holder",
			run: func(t *testing.T, key string) {
				unlock, err := l.Lock(ctx, key)
				require.NoError(t, err)
				defer func() { _ = unlock(ctx) }()

				waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
				defer cancel()
				_, err = l.Lock(waitCtx, key)
				assert.ErrorIs(t, err, ErrLockTimeout)
			},
		},
		{
			name: "unlock releases the key",
			run: func(t *testing.T, key string) {
				unlock, err := l.Lock(ctx, key)
				require.NoError(t, err)
				require.NoError(t, unlock(ctx))

				waitCtx, cancel := context.WithTimeout(ctx, time.Second)
				defer cancel()
				again, err := l.Lock(waitCtx, key)
				require.NoError(t, err)
				assert.NoError(t, again(ctx))
			},
		},
		{
			name: "distinct keys do not contend",
			run: func(t *testing.T, key string) {
				unlock, err := l.Lock(ctx, key)
				require.NoError(t, err)
				defer func() { _ = unlock(ctx) }()

				waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
				defer cancel()
				other, err := l.Lock(waitCtx, key+":other")
				require.NoError(t, err)
				assert.NoError(t, other(ctx))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, CandidateKey(uuid.NewString()))
		})
	}
}

func TestIntegration_RedisLocker_ExpiredHolderCannotRelease(t *testing.T) {
	l := getTestLocker(t, 200*time.Millisecond)
	ctx := context.Background()
	key := CandidateKey(uuid.NewString())

	first, err := l.Lock(ctx, key)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	second, err := l.Lock(waitCtx, key)
	require.NoError(t, err, "key should expire after its TTL")

	held, err := l.cli.Get(ctx, key).Result()
	require.NoError(t, err)

	// The first holder's token no longer matches, so its release is a no-op.
	require.NoError(t, first(ctx))
	still, err := l.cli.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, held, still)

	require.NoError(t, second(ctx))
	assert.Zero(t, l.cli.Exists(ctx, key).Val())
}
