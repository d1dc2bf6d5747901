// Package redis backs the auth throttling counters.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

const (
	keyNamespace    = "sd"
	rateLimitPrefix = "rate_limit"
)

var errNotInitialized = errors.New("redis client not initialized")

type commands interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
}

// Client keeps fixed-window counters under the sd:rate_limit namespace. It
// satisfies middleware.RateLimitStore and db.Pinger.
type Client struct {
	cmd  commands
	conn *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"addr": opts.Addr, "db": opts.DB}), "redis connection established")
	}
	return &Client{cmd: conn, conn: conn}, nil
}

// optionsFromConfig prefers a URL and lets explicit pool settings fill what
// the URL leaves unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	if url := strings.TrimSpace(cfg.URL); url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if parsed.DB == 0 {
			parsed.DB = cfg.DB
		}
		opts = parsed
	}
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("redis url or address is required")
	}

	opts.PoolSize = firstPositive(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = firstPositive(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = firstPositive(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = firstPositive(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = firstPositive(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func firstPositive[T int | time.Duration](current, fallback T) T {
	if current > 0 {
		return current
	}
	return fallback
}

// Hit increments the counter for bucket. The first hit starts the window;
// later hits report how long remains. A counter that has lost its expiry is
// given a fresh window so it cannot block forever.
func (c *Client) Hit(ctx context.Context, bucket string, window time.Duration) (int64, time.Duration, error) {
	if c == nil || c.cmd == nil {
		return 0, 0, errNotInitialized
	}
	key := RateLimitKey(bucket)

	count, err := c.cmd.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if window <= 0 {
		return count, 0, nil
	}
	if count == 1 {
		return count, window, c.expire(ctx, key, window)
	}

	ttl, err := c.cmd.PTTL(ctx, key).Result()
	if err != nil {
		return count, 0, fmt.Errorf("pttl %s: %w", key, err)
	}
	if ttl < 0 {
		return count, window, c.expire(ctx, key, window)
	}
	return count, ttl, nil
}

func (c *Client) expire(ctx context.Context, key string, window time.Duration) error {
	if err := c.cmd.PExpire(ctx, key, window).Err(); err != nil {
		return fmt.Errorf("pexpire %s: %w", key, err)
	}
	return nil
}

// RateLimitKey namespaces a bucket, dropping empty segments.
func RateLimitKey(bucket string) string {
	parts := []string{keyNamespace, rateLimitPrefix}
	if bucket = strings.TrimSpace(bucket); bucket != "" {
		parts = append(parts, bucket)
	}
	return strings.Join(parts, ":")
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.cmd == nil {
		return errNotInitialized
	}
	return c.cmd.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
