package repository

import (
	"context"
	"sync"
	"time"

	"github.com/brightloom/pathguard/internal/policy"
)

// Cache wraps another Repository with an in-process, per-entry TTL cache.
// Get and Has are served from cache when a fresh entry exists; All always
// bypasses the cache and goes straight to the backing repository, since
// enumerating requires knowing the full set regardless of which entries
// happen to be cached.
type Cache struct {
	backing Repository
	ttl     time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	policy    policy.Policy
	expiresAt time.Time
}

// NewCache wraps backing with a TTL cache. A non-positive ttl disables
// caching: every call passes straight through to backing.
func NewCache(backing Repository, ttl time.Duration) *Cache {
	return &Cache{
		backing: backing,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) lookup(name string) (policy.Policy, bool) {
	if c.ttl <= 0 {
		return policy.Policy{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[name]
	if !ok || time.Now().After(entry.expiresAt) {
		return policy.Policy{}, false
	}
	return entry.policy, true
}

func (c *Cache) store(name string, p policy.Policy) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = cacheEntry{policy: p, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate evicts name from the cache, if present. Call this after a
// write to the backing repository to avoid serving a stale entry for the
// remainder of the TTL window.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Get implements Repository.
func (c *Cache) Get(ctx context.Context, name string) (policy.Policy, error) {
	if p, ok := c.lookup(name); ok {
		return p, nil
	}

	p, err := c.backing.Get(ctx, name)
	if err != nil {
		return policy.Policy{}, err
	}
	c.store(name, p)
	return p, nil
}

// Has implements Repository.
func (c *Cache) Has(ctx context.Context, name string) (bool, error) {
	if _, ok := c.lookup(name); ok {
		return true, nil
	}
	return c.backing.Has(ctx, name)
}

// All implements Repository. It always bypasses the cache.
func (c *Cache) All(ctx context.Context) (map[string]policy.Policy, error) {
	return c.backing.All(ctx)
}

// GetMany implements Repository.
func (c *Cache) GetMany(ctx context.Context, names []string) (map[string]policy.Policy, error) {
	return getManyFallback(ctx, c, names)
}
