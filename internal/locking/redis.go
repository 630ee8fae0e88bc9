package locking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisConfig configures the Redis connection used for locks.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisLocker holds keys in Redis with SET NX and a per-holder token.
type RedisLocker struct {
	cli        *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
}

// NewRedisLocker connects to Redis. URL may be a redis:// URL or a host:port address.
func NewRedisLocker(ctx context.Context, cfg RedisConfig) (*RedisLocker, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if strings.HasPrefix(cfg.URL, "redis://") || strings.HasPrefix(cfg.URL, "rediss://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		if cfg.Password != "" {
			parsed.Password = cfg.Password
		}
		opts = parsed
	}

	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{cli: cli, ttl: ttl, retryDelay: DefaultRetryDelay}, nil
}

// Lock retries SET NX until it wins the key or ctx is done. The key expires
// after the TTL if the holder never releases it.
func (l *RedisLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	token := uuid.NewString()
	for {
		ok, err := l.cli.SetNX(ctx, key, token, l.ttl).Result()
		if err == nil && ok {
			return func(ctx context.Context) error {
				return l.unlock(ctx, key, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return nil, fmt.Errorf("failed to acquire %s: %w", key, err)
			}
			return nil, ErrLockTimeout
		case <-time.After(l.retryDelay):
		}
	}
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}

// Close closes the Redis client.
func (l *RedisLocker) Close() error {
	return l.cli.Close()
}
