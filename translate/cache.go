package translate

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is a second-level translation cache shared across runs.
// Get reports ok=false on a miss.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}

// Cache memoizes translations for one language pair. Entries live for the
// lifetime of the Cache and are never evicted. A failed translation is
// not cached, so a later lookup retries the backend.
//
// Cache is safe for concurrent use; concurrent lookups of the same text
// share one backend call.
type Cache struct {
	backend Translator
	pair    Pair
	store   Store
	log     *zap.Logger

	mu      sync.RWMutex
	entries map[string]string
	group   singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithStore adds a second-level store consulted before the backend.
func WithStore(s Store) CacheOption {
	return func(c *Cache) { c.store = s }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCache returns a cache translating through backend for pair.
func NewCache(backend Translator, pair Pair, opts ...CacheOption) *Cache {
	c := &Cache{
		backend: backend,
		pair:    pair,
		log:     zap.NewNop(),
		entries: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pair returns the language pair the cache translates.
func (c *Cache) Pair() Pair { return c.pair }

// Known returns a cached translation without calling the backend.
func (c *Cache) Known(text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[text]
	return v, ok
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookup returns the translation of text. On any failure the original
// text is returned; errors are logged, never surfaced.
func (c *Cache) Lookup(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if v, ok := c.Known(text); ok {
		return v
	}

	v, err, _ := c.group.Do(text, func() (any, error) {
		return c.fetch(ctx, text)
	})
	if err != nil {
		c.log.Debug("translation failed, using original text",
			zap.String("pair", c.pair.String()), zap.Error(err))
		return text
	}
	return v.(string)
}

// Translate makes the cache a Translator. Unlike Lookup it reports
// backend failures. Pairs other than the cache's own go straight to the
// backend.
func (c *Cache) Translate(ctx context.Context, text, source, target string) (string, error) {
	if (Pair{Source: source, Target: target}) != c.pair {
		return c.backend.Translate(ctx, text, source, target)
	}
	if v, ok := c.Known(text); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(text, func() (any, error) {
		return c.fetch(ctx, text)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) fetch(ctx context.Context, text string) (string, error) {
	key := storeKey(c.pair, text)
	if c.store != nil {
		v, ok, err := c.store.Get(ctx, key)
		if err != nil {
			c.log.Warn("translation store read failed", zap.Error(err))
		} else if ok {
			c.remember(text, v)
			return v, nil
		}
	}

	out, err := c.backend.Translate(ctx, text, c.pair.Source, c.pair.Target)
	if err != nil {
		return "", err
	}
	c.remember(text, out)

	if c.store != nil {
		if err := c.store.Put(ctx, key, out); err != nil {
			c.log.Warn("translation store write failed", zap.Error(err))
		}
	}
	return out, nil
}

func (c *Cache) remember(text, translated string) {
	c.mu.Lock()
	c.entries[text] = translated
	c.mu.Unlock()
}
