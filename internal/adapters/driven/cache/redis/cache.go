// Package redis provides a SummaryCache backed by Redis.
//
// Summaries are stored as JSON under "autopost:summary:{source_id}" with a
// fixed TTL. A TTL of zero stores keys without expiry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// KeyPrefix namespaces summary keys.
const KeyPrefix = "autopost:summary:"

// Default connection timeouts.
const (
	DefaultDialTimeout  = 3 * time.Second
	DefaultReadTimeout  = 2 * time.Second
	DefaultWriteTimeout = 2 * time.Second
)

// client is the subset of *redisv9.Client the cache uses.
type client interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redisv9.StatusCmd
	Del(ctx context.Context, keys ...string) *redisv9.IntCmd
}

// SummaryCache implements driven.SummaryCache on Redis.
type SummaryCache struct {
	client client
	ttl    time.Duration
}

var _ driven.SummaryCache = (*SummaryCache)(nil)

// Connect parses a redis:// URL, pings the server and returns the client.
func Connect(ctx context.Context, url string) (*redisv9.Client, error) {
	opts, err := redisv9.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.DialTimeout = DefaultDialTimeout
	opts.ReadTimeout = DefaultReadTimeout
	opts.WriteTimeout = DefaultWriteTimeout

	c := redisv9.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultDialTimeout)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return c, nil
}

// New creates a cache over an existing client.
func New(c *redisv9.Client, ttl time.Duration) *SummaryCache {
	return newCache(c, ttl)
}

func newCache(c client, ttl time.Duration) *SummaryCache {
	if ttl < 0 {
		ttl = 0
	}
	return &SummaryCache{client: c, ttl: ttl}
}

// Get returns the cached summary and whether it was present.
func (c *SummaryCache) Get(ctx context.Context, sourceID string) (*domain.Summary, bool, error) {
	raw, err := c.client.Get(ctx, key(sourceID)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading summary %s: %w", sourceID, err)
	}

	var s domain.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("decoding summary %s: %w", sourceID, err)
	}
	s.Normalize()
	return &s, true, nil
}

// Set stores a summary with the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, sourceID string, s *domain.Summary) error {
	if s == nil {
		return domain.ErrInvalidInput
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary %s: %w", sourceID, err)
	}
	if err := c.client.Set(ctx, key(sourceID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing summary %s: %w", sourceID, err)
	}
	return nil
}

// Delete evicts a summary.
func (c *SummaryCache) Delete(ctx context.Context, sourceID string) error {
	if err := c.client.Del(ctx, key(sourceID)).Err(); err != nil {
		return fmt.Errorf("deleting summary %s: %w", sourceID, err)
	}
	return nil
}

func key(sourceID string) string {
	return KeyPrefix + sourceID
}
