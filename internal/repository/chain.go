package repository

import (
	"context"

	"github.com/brightloom/pathguard/internal/policy"
)

// Chain queries a list of Repository sources in order and returns the
// first hit, the way the teacher's policy pack loader lets a later,
// higher-precedence pack override an earlier one by name. All sources
// are consulted for All and GetMany, with earlier sources taking
// precedence on name collisions.
type Chain struct {
	sources []Repository
}

// NewChain builds a Chain querying sources in the given order.
func NewChain(sources ...Repository) *Chain {
	return &Chain{sources: sources}
}

// Get implements Repository.
func (c *Chain) Get(ctx context.Context, name string) (policy.Policy, error) {
	for _, src := range c.sources {
		if p, err := src.Get(ctx, name); err == nil {
			return p, nil
		}
	}
	return policy.Policy{}, notFound(name)
}

// Has implements Repository.
func (c *Chain) Has(ctx context.Context, name string) (bool, error) {
	for _, src := range c.sources {
		ok, err := src.Has(ctx, name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// All implements Repository, merging every source with earlier sources
// taking precedence over later ones on name collisions.
func (c *Chain) All(ctx context.Context) (map[string]policy.Policy, error) {
	merged := make(map[string]policy.Policy)

	for i := len(c.sources) - 1; i >= 0; i-- {
		all, err := c.sources[i].All(ctx)
		if err != nil {
			return nil, err
		}
		for name, p := range all {
			merged[name] = p
		}
	}

	return merged, nil
}

// GetMany implements Repository.
func (c *Chain) GetMany(ctx context.Context, names []string) (map[string]policy.Policy, error) {
	return getManyFallback(ctx, c, names)
}
