// Package repository implements the storage seam the policy core depends
// on externally (spec §6.2): policy lookup by name, set membership,
// enumeration, and batch fetch. The evaluator never consults this package
// directly — it only ever sees the []policy.Policy slice a caller obtained
// from a Repository.
package repository

import (
	"context"
	"fmt"

	"github.com/brightloom/pathguard/internal/policy"
)

// Repository is the strategy interface every storage adapter implements.
// Implementations may be backed by memory, structured-document files, a
// SQL table, a chain of sources, or a caching wrapper around another
// Repository.
type Repository interface {
	// Get returns the named policy, or a policy.ErrPolicyNotFound error.
	Get(ctx context.Context, name string) (policy.Policy, error)
	// Has reports whether name is known to the repository.
	Has(ctx context.Context, name string) (bool, error)
	// All enumerates every policy known to the repository, keyed by name.
	All(ctx context.Context) (map[string]policy.Policy, error)
	// GetMany batch-fetches the named policies. An empty names slice
	// yields an empty result with no I/O. If any name is missing, the
	// returned error is a *policy.MultiplePoliciesNotFoundError listing
	// every miss.
	GetMany(ctx context.Context, names []string) (map[string]policy.Policy, error)
}

// getManyFallback implements GetMany in terms of Get for adapters with no
// more efficient batch path (memory, file, chain).
func getManyFallback(ctx context.Context, repo Repository, names []string) (map[string]policy.Policy, error) {
	if len(names) == 0 {
		return map[string]policy.Policy{}, nil
	}

	out := make(map[string]policy.Policy, len(names))
	var missing []string
	for _, name := range names {
		p, err := repo.Get(ctx, name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		out[name] = p
	}

	if len(missing) > 0 {
		return nil, &policy.MultiplePoliciesNotFoundError{Missing: missing}
	}
	return out, nil
}

// notFound wraps policy.ErrPolicyNotFound with the offending name.
func notFound(name string) error {
	return fmt.Errorf("%w: %q", policy.ErrPolicyNotFound, name)
}
