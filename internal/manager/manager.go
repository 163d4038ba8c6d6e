// Package manager implements the thin façade the policy core exposes to
// callers (spec.md §6.3): a fluent builder that resolves policy names
// through a repository, accumulates path and context state, and
// delegates to the three evaluator operations.
package manager

import (
	"context"
	"fmt"

	"github.com/brightloom/pathguard/internal/policy"
	"github.com/brightloom/pathguard/internal/repository"
)

// ErrUsage is raised when a caller attempts to evaluate before
// supplying all the state that flow requires (spec's UsageError kind).
var ErrUsage = policy.ErrUsage

// Manager is the entry point callers construct once per repository and
// reuse across requests. It holds no per-request state; Query returns a
// fresh builder for each evaluation.
type Manager struct {
	repo repository.Repository
	eval *policy.Evaluator
}

// New builds a Manager backed by repo, using a fresh Evaluator.
func New(repo repository.Repository) *Manager {
	return &Manager{repo: repo, eval: policy.NewEvaluator()}
}

// Query starts a fluent evaluation against ctx. Mix WithPolicy (a
// resolved policy.Policy value) and WithPolicyName (resolved from the
// repository on first use) freely.
func (m *Manager) Query(ctx context.Context) *Query {
	return &Query{manager: m, ctx: ctx}
}

// Query accumulates fluent evaluation state: bound policies, a target
// path, a capability, and a context map. It is not safe for concurrent
// use; build one Query per request.
type Query struct {
	manager *Manager
	ctx     context.Context

	policies    []policy.Policy
	policyNames []string
	resolveErr  error

	path       string
	hasPath    bool
	capability policy.Capability
	hasCap     bool
	reqCtx     map[string]any
}

// WithPolicy binds an already-resolved policy value (the policy-first
// flow entry point).
func (q *Query) WithPolicy(p policy.Policy) *Query {
	q.policies = append(q.policies, p)
	return q
}

// WithPolicyName queues a policy name to be resolved from the
// repository when the query is evaluated (the path-first flow entry
// point, also usable alongside WithPolicy).
func (q *Query) WithPolicyName(name string) *Query {
	q.policyNames = append(q.policyNames, name)
	return q
}

// WithPolicyNames queues several policy names at once.
func (q *Query) WithPolicyNames(names ...string) *Query {
	q.policyNames = append(q.policyNames, names...)
	return q
}

// ForPath sets the target path for the path-first flow.
func (q *Query) ForPath(path string) *Query {
	q.path = path
	q.hasPath = true
	return q
}

// WithCapability sets the capability being checked for the policy-first
// flow's Can.
func (q *Query) WithCapability(cap policy.Capability) *Query {
	q.capability = cap
	q.hasCap = true
	return q
}

// WithContext sets the evaluation context map.
func (q *Query) WithContext(ctx map[string]any) *Query {
	q.reqCtx = ctx
	return q
}

// resolvePolicies merges bound policy values with repository-resolved
// named policies: every WithPolicy value first, in the order added, then
// every named policy, in the order its name was added.
func (q *Query) resolvePolicies() ([]policy.Policy, error) {
	if len(q.policyNames) == 0 {
		return q.policies, nil
	}

	resolved, err := q.manager.repo.GetMany(q.manager.ctx(q.ctx), q.policyNames)
	if err != nil {
		return nil, err
	}

	out := make([]policy.Policy, 0, len(q.policies)+len(q.policyNames))
	out = append(out, q.policies...)
	for _, name := range q.policyNames {
		out = append(out, resolved[name])
	}
	return out, nil
}

func (m *Manager) ctx(c context.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	return c
}

// Can runs the policy-first flow: does the bound policy set grant
// capability at path under the current context? Requires a path and a
// capability to have been set.
func (q *Query) Can() (policy.EvaluationResult, error) {
	if !q.hasPath {
		return policy.EvaluationResult{}, fmt.Errorf("%w: Can requires ForPath", ErrUsage)
	}
	if !q.hasCap {
		return policy.EvaluationResult{}, fmt.Errorf("%w: Can requires WithCapability", ErrUsage)
	}

	policies, err := q.resolvePolicies()
	if err != nil {
		return policy.EvaluationResult{}, err
	}
	if len(policies) == 0 {
		return policy.EvaluationResult{}, fmt.Errorf("%w: Can requires at least one bound policy", ErrUsage)
	}

	return q.manager.eval.Evaluate(policies, q.capability, q.path, q.reqCtx), nil
}

// CapabilitiesAt runs the path-first flow, returning every capability
// granted at path under the current context across the bound policies.
// Requires a path and at least one bound policy.
func (q *Query) CapabilitiesAt() ([]policy.Capability, error) {
	if !q.hasPath {
		return nil, fmt.Errorf("%w: CapabilitiesAt requires ForPath", ErrUsage)
	}

	policies, err := q.resolvePolicies()
	if err != nil {
		return nil, err
	}
	if len(policies) == 0 {
		return nil, fmt.Errorf("%w: CapabilitiesAt requires at least one bound policy", ErrUsage)
	}

	return q.manager.eval.CapabilitiesAt(policies, q.path, q.reqCtx), nil
}

// ListAccessiblePaths runs the enumeration flow for capability across
// the bound policies, ignoring conditions and capability implication
// per the evaluator's documented enumeration semantics. Requires a
// capability and at least one bound policy.
func (q *Query) ListAccessiblePaths() ([]string, error) {
	if !q.hasCap {
		return nil, fmt.Errorf("%w: ListAccessiblePaths requires WithCapability", ErrUsage)
	}

	policies, err := q.resolvePolicies()
	if err != nil {
		return nil, err
	}
	if len(policies) == 0 {
		return nil, fmt.Errorf("%w: ListAccessiblePaths requires at least one bound policy", ErrUsage)
	}

	return q.manager.eval.ListAccessiblePaths(policies, q.capability), nil
}
