package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// Ensure SummaryCache implements the interface.
var _ driven.SummaryCache = (*SummaryCache)(nil)

type summaryEntry struct {
	summary  domain.Summary
	storedAt time.Time
}

// SummaryCache is an in-memory summary cache with an optional TTL.
type SummaryCache struct {
	mu      sync.RWMutex
	entries map[string]summaryEntry
	ttl     time.Duration
	now     func() time.Time
}

// SummaryCacheOption configures a SummaryCache.
type SummaryCacheOption func(*SummaryCache)

// WithTTL expires entries older than ttl. Zero keeps entries forever.
func WithTTL(ttl time.Duration) SummaryCacheOption {
	return func(c *SummaryCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) SummaryCacheOption {
	return func(c *SummaryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewSummaryCache creates a new in-memory summary cache.
func NewSummaryCache(opts ...SummaryCacheOption) *SummaryCache {
	c := &SummaryCache{
		entries: make(map[string]summaryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached summary. Expired entries are evicted.
func (c *SummaryCache) Get(_ context.Context, sourceID string) (*domain.Summary, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[sourceID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, still := c.entries[sourceID]; still && cur.storedAt.Equal(entry.storedAt) {
			delete(c.entries, sourceID)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	s := copySummary(entry.summary)
	return &s, true, nil
}

// Set stores a copy of the summary.
func (c *SummaryCache) Set(_ context.Context, sourceID string, s *domain.Summary) error {
	if s == nil {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sourceID] = summaryEntry{summary: copySummary(*s), storedAt: c.now()}
	return nil
}

// Delete evicts a summary.
func (c *SummaryCache) Delete(_ context.Context, sourceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sourceID)
	return nil
}

// Len returns the number of cached entries, expired or not.
func (c *SummaryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// copySummary returns a deep copy so callers cannot mutate cached state.
func copySummary(s domain.Summary) domain.Summary {
	out := s
	out.KeyIdeas = append([]string(nil), s.KeyIdeas...)
	out.Cases = append([]string(nil), s.Cases...)
	out.Reflection = append([]string(nil), s.Reflection...)
	out.Quotes = append([]domain.Quote(nil), s.Quotes...)
	out.Practices = make([]domain.Practice, len(s.Practices))
	for i, p := range s.Practices {
		out.Practices[i] = domain.Practice{Name: p.Name, Steps: append([]string(nil), p.Steps...)}
	}
	out.Normalize()
	return out
}
