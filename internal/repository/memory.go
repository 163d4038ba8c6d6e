package repository

import (
	"context"
	"sync"

	"github.com/brightloom/pathguard/internal/policy"
)

// Memory is the simple in-memory Repository variant named by spec.md
// Component G: a map guarded by a RWMutex, safe for concurrent readers and
// a single writer convention at a time.
type Memory struct {
	mu       sync.RWMutex
	policies map[string]policy.Policy
}

// NewMemory returns a Memory repository seeded with the given policies.
func NewMemory(policies ...policy.Policy) *Memory {
	m := &Memory{policies: make(map[string]policy.Policy, len(policies))}
	for _, p := range policies {
		m.policies[p.Name()] = p
	}
	return m
}

// Put adds or replaces a policy by name.
func (m *Memory) Put(p policy.Policy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.Name()] = p
}

// Remove deletes a policy by name, if present.
func (m *Memory) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.policies, name)
}

// Get implements Repository.
func (m *Memory) Get(_ context.Context, name string) (policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[name]
	if !ok {
		return policy.Policy{}, notFound(name)
	}
	return p, nil
}

// Has implements Repository.
func (m *Memory) Has(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.policies[name]
	return ok, nil
}

// All implements Repository.
func (m *Memory) All(_ context.Context) (map[string]policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]policy.Policy, len(m.policies))
	for k, v := range m.policies {
		out[k] = v
	}
	return out, nil
}

// GetMany implements Repository.
func (m *Memory) GetMany(ctx context.Context, names []string) (map[string]policy.Policy, error) {
	return getManyFallback(ctx, m, names)
}
