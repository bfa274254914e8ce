// Package redis is the shared backend for the registry slots. Several
// daemons pointed at one redis see the same state, last writer wins.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/pointmoney/pointmoney/internal/domain"
)

// Config controls the redis backend.
type Config struct {
	URL    string
	Prefix string // prepended to every key (default "pointmoney:")

	// Breaker settings: trip after FailureThreshold consecutive failures,
	// stay open for OpenTimeout before probing again.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultConfig returns local defaults.
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379/0",
		Prefix:           "pointmoney:",
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// Client implements domain.KeyValueStore on redis.
type Client struct {
	rdb    *redis.Client
	cb     *gobreaker.CircuitBreaker
	prefix string
	log    zerolog.Logger
}

// NewClient parses the URL and prepares the client. It does not dial:
// an unreachable redis surfaces as failed operations, which the storage
// adapter absorbs.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return newClient(redis.NewClient(opts), cfg, log), nil
}

func newClient(rdb *redis.Client, cfg Config, log zerolog.Logger) *Client {
	def := DefaultConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	log = log.With().Str("component", "redis").Logger()

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-kv",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// A cache miss is an answer, not an outage.
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &Client{rdb: rdb, cb: cb, prefix: cfg.Prefix, log: log}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get returns the value under key, or domain.ErrKeyNotFound.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.cb.Execute(func() (interface{}, error) {
		return c.rdb.Get(ctx, c.prefix+key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, c.wrap(err)
	}
	return v.([]byte), nil
}

// Set overwrites the value under key with no expiry.
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, c.prefix+key, value, 0).Err()
	})
	return c.wrap(err)
}

// Delete removes key.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.rdb.Del(ctx, c.prefix+key).Err()
	})
	return c.wrap(err)
}

// BreakerState reports the breaker state (closed, half-open, open).
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return err
}
