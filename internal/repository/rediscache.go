package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightloom/pathguard/internal/policy"
)

// RedisCache wraps another Repository with a shared Redis-backed cache,
// for deployments running multiple pathguard instances against one
// policy source. It serializes the cached value as the JSON encoding of
// a policy.PolicyDocument, keyed by keyPrefix+name.
type RedisCache struct {
	backing   Repository
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisCache wraps backing with a Redis-backed cache using client.
// keyPrefix namespaces cache keys, e.g. "pathguard:policy:".
func NewRedisCache(backing Repository, client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		backing:   backing,
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisCache) key(name string) string {
	return c.keyPrefix + name
}

func (c *RedisCache) lookup(ctx context.Context, name string) (policy.Policy, bool) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		return policy.Policy{}, false
	}

	var doc policy.PolicyDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return policy.Policy{}, false
	}

	pol, err := policy.FromDocument(doc)
	if err != nil {
		return policy.Policy{}, false
	}
	return pol, true
}

func (c *RedisCache) store(ctx context.Context, p policy.Policy) {
	raw, err := json.Marshal(p.ToDocument())
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(p.Name()), raw, c.ttl)
}

// Invalidate evicts name from the shared cache.
func (c *RedisCache) Invalidate(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, c.key(name)).Err(); err != nil {
		return fmt.Errorf("repository: invalidate %q: %w", name, err)
	}
	return nil
}

// Get implements Repository.
func (c *RedisCache) Get(ctx context.Context, name string) (policy.Policy, error) {
	if p, ok := c.lookup(ctx, name); ok {
		return p, nil
	}

	p, err := c.backing.Get(ctx, name)
	if err != nil {
		return policy.Policy{}, err
	}
	c.store(ctx, p)
	return p, nil
}

// Has implements Repository.
func (c *RedisCache) Has(ctx context.Context, name string) (bool, error) {
	if _, ok := c.lookup(ctx, name); ok {
		return true, nil
	}
	return c.backing.Has(ctx, name)
}

// All implements Repository. It always bypasses the cache.
func (c *RedisCache) All(ctx context.Context) (map[string]policy.Policy, error) {
	return c.backing.All(ctx)
}

// GetMany implements Repository.
func (c *RedisCache) GetMany(ctx context.Context, names []string) (map[string]policy.Policy, error) {
	return getManyFallback(ctx, c, names)
}
