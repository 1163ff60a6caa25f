package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/camisetia/storefront/pkg/config"
	"github.com/camisetia/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace    = "cmst"
	cartPrefix      = "cart"
	rateLimitPrefix = "rate_limit"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	redis.Scripter
}

// Client wraps the redis connection helpers needed by the storefront.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "redis_addr", opts.Addr), "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Set stores a string value with an optional TTL.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Set(ctx, key, value, ttl).Err()
}

// Get returns a string value stored at key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errors.New("redis client not initialized")
	}
	return c.store.Get(ctx, key).Result()
}

// Lookup is Get with a missing key reported as found=false instead of an error.
func (c *Client) Lookup(ctx context.Context, key string) (string, bool, error) {
	value, err := c.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// slidingWindowScript prunes, counts and records in one server-side step so
// concurrent reservations against the same keys cannot both pass the count.
// KEYS are the window keys; ARGV cutoff, score, member, limit, ttl millis.
// The reply is {allowed, highest count}.
var slidingWindowScript = redis.NewScript(`
local highest = 0
for _, key in ipairs(KEYS) do
  redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[1])
  local count = redis.call('ZCARD', key)
  if count > highest then
    highest = count
  end
end
if highest >= tonumber(ARGV[4]) then
  return {0, highest}
end
for _, key in ipairs(KEYS) do
  redis.call('ZADD', key, ARGV[2], ARGV[3])
  redis.call('PEXPIRE', key, ARGV[5])
end
return {1, highest + 1}
`)

// SlidingWindowReserve records member in the rolling window of every scope
// when each of them holds fewer than limit entries after pruning. Rejected
// attempts leave all windows untouched. The returned count is the fullest
// window's size.
func (c *Client) SlidingWindowReserve(ctx context.Context, scopes []string, member string, now time.Time, limit int64, window time.Duration) (bool, int64, error) {
	if c.store == nil {
		return false, 0, errors.New("redis client not initialized")
	}
	if len(scopes) == 0 {
		return false, 0, errors.New("rate limit scope required")
	}
	keys := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		keys = append(keys, c.RateLimitKey(scope))
	}
	cutoff := now.Add(-window).UnixMilli()
	res, err := slidingWindowScript.Run(ctx, c.store, keys,
		strconv.FormatInt(cutoff, 10),
		strconv.FormatInt(now.UnixMilli(), 10),
		member,
		strconv.FormatInt(limit, 10),
		strconv.FormatInt(window.Milliseconds(), 10),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("reserve window entry: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("reserve window entry: unexpected reply %v", res)
	}
	return res[0] == 1, res[1], nil
}

// CartKey returns the namespaced key holding one client's persisted cart.
func (c *Client) CartKey(name string) string {
	return c.buildKey(cartPrefix, name)
}

// RateLimitKey returns a namespaced key for rate limit windows.
func (c *Client) RateLimitKey(scope string) string {
	return c.buildKey(rateLimitPrefix, scope)
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func (c *Client) buildKey(parts ...string) string {
	if len(parts) == 0 {
		return keyNamespace
	}
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
