package langid

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ppiankov/gncorpora/internal/cache"
)

// Cached stores verdicts, abstentions included, keyed by namespace and text
type Cached struct {
	next      Identifier
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewCached wraps next with a result cache. The namespace separates entries
// of different services sharing one cache; empty means next.Name().
func NewCached(next Identifier, c cache.Cache, namespace string, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	if namespace == "" {
		namespace = next.Name()
	}
	return &Cached{next: next, cache: c, namespace: namespace, ttl: ttl, logger: logger}
}

// Name returns the wrapped identifier name
func (c *Cached) Name() string {
	return c.next.Name()
}

// Unwrap returns the wrapped identifier
func (c *Cached) Unwrap() Identifier {
	return c.next
}

// Stats returns the lookup counts of the underlying cache, when it keeps them
func (c *Cached) Stats() (hits, misses int64, ok bool) {
	s, ok := c.cache.(cache.StatsReporter)
	if !ok {
		return 0, 0, false
	}
	hits, misses = s.Stats()
	return hits, misses, true
}

// Identify returns a cached verdict or asks next and stores the answer.
// Cache failures are logged and never fail the call.
func (c *Cached) Identify(ctx context.Context, text string) (*Result, error) {
	key := cache.Key(c.namespace, text)

	if data, ok := c.cache.Get(key); ok {
		var res *Result
		if err := json.Unmarshal(data, &res); err == nil {
			return res, nil
		}
		c.logger.Warn("discarding corrupt cache entry", "key", key)
		_ = c.cache.Delete(key)
	}

	res, err := c.next.Identify(ctx, text)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(res)
	if err == nil {
		err = c.cache.Set(key, data, c.ttl)
	}
	if err != nil {
		c.logger.Warn("failed to cache identification", "error", err)
	}

	return res, nil
}
