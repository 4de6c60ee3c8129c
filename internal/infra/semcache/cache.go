// Package semcache caches resolved intents keyed by normalized message
// text, so repeated phrasings skip the LLM stage entirely.
package semcache

import (
	"context"
	"time"

	"finance_assistant_bot/internal/domain/intent"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	numCounters = 10000 // number of keys to track frequency of
	maxCost     = 10000
	bufferItems = 64 // number of keys per Get buffer
)

// Cache is a lossy admission cache: a dropped entry only costs one extra
// LLM call, never correctness.
type Cache struct {
	cache *ristretto.Cache[string, intent.Intent]
	ttl   time.Duration
}

func New(ttl time.Duration) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, intent.Intent]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{cache: c, ttl: ttl}, nil
}

func (c *Cache) Name() string { return "semantic_cache" }

// Parse implements the intent.Stage interface: a cache hit replays the
// stored intent, a miss defers to the next stage.
func (c *Cache) Parse(_ context.Context, msg *intent.Message) (*intent.Intent, error) {
	key := intent.Normalize(msg.Text)
	if key == "" {
		return nil, intent.ErrNoMatch
	}
	cached, found := c.cache.Get(key)
	if !found {
		return nil, intent.ErrNoMatch
	}

	// Copy entities so executor-side mutation can't poison the cache.
	entities := make(map[string]string, len(cached.Entities))
	for k, v := range cached.Entities {
		entities[k] = v
	}
	cached.Entities = entities
	return &cached, nil
}

// Put stores a resolved intent under the message's normalized form.
func (c *Cache) Put(text string, in *intent.Intent) {
	key := intent.Normalize(text)
	if key == "" || in == nil {
		return
	}
	c.cache.SetWithTTL(key, *in, 1, c.ttl)
}

// Wait flushes pending writes; only needed by tests.
func (c *Cache) Wait() { c.cache.Wait() }

// Close stops the cache's internal goroutines.
func (c *Cache) Close() { c.cache.Close() }
