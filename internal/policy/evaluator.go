package policy

import (
	"sort"

	"github.com/brightloom/pathguard/internal/pathmatch"
)

// Evaluator combines per-rule matches across a set of policies into a
// single decision. It holds only a SpecificityCalculator, which is
// stateless, so an Evaluator is safe for concurrent use by any number of
// callers evaluating the same or different policy lists (spec §5).
type Evaluator struct {
	specificity SpecificityCalculator
}

// NewEvaluator returns a ready-to-use Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{specificity: NewSpecificityCalculator()}
}

// candidate pairs a matching rule with the policy it came from and its
// specificity score. Candidates are collected in encounter order, so a
// stable sort breaks specificity ties by insertion order (spec §4.5.1
// step 3).
type candidate struct {
	rule        Rule
	policy      Policy
	specificity int
}

// Evaluate decides whether capability cap may be exercised on path under
// ctx, given policies in caller-supplied order. See spec §4.5.1 for the
// full algorithm; summarized: collect every rule that matches path and
// conditions (denies unconditionally, allows only if their capability set
// implies cap), sort by specificity descending (stable), then any deny in
// the candidate set wins outright, else the most specific allow wins.
func (e *Evaluator) Evaluate(policies []Policy, cap Capability, path string, ctx map[string]any) EvaluationResult {
	candidates := e.collectCandidates(policies, cap, path, ctx)

	if len(candidates) == 0 {
		return EvaluationResult{
			Allowed:           false,
			ExplicitDeny:      false,
			Reason:            "No matching rule found",
			EvaluatedPolicies: policies,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].specificity > candidates[j].specificity
	})

	for _, c := range candidates {
		if c.rule.Effect() == Deny {
			rule := c.rule
			pol := c.policy
			return EvaluationResult{
				Allowed:           false,
				ExplicitDeny:      true,
				MatchedRule:       &rule,
				MatchedPolicy:     &pol,
				Reason:            "Explicit deny: " + rule.Path(),
				EvaluatedPolicies: policies,
			}
		}
	}

	winner := candidates[0]
	rule := winner.rule
	pol := winner.policy
	return EvaluationResult{
		Allowed:           true,
		ExplicitDeny:      false,
		MatchedRule:       &rule,
		MatchedPolicy:     &pol,
		Reason:            "Allowed by rule: " + rule.Path(),
		EvaluatedPolicies: policies,
	}
}

func (e *Evaluator) collectCandidates(policies []Policy, cap Capability, path string, ctx map[string]any) []candidate {
	var candidates []candidate

	for _, pol := range policies {
		for _, rule := range pol.Rules() {
			if !rule.matchesPath(pathmatch.Match, path, ctx) {
				continue
			}
			if !rule.conditionsSatisfied(ctx) {
				continue
			}

			if rule.Effect() == Deny {
				candidates = append(candidates, candidate{
					rule:        rule,
					policy:      pol,
					specificity: e.specificity.Specificity(rule.Path()),
				})
				continue
			}

			if rule.grantsCapability(cap) {
				candidates = append(candidates, candidate{
					rule:        rule,
					policy:      pol,
					specificity: e.specificity.Specificity(rule.Path()),
				})
			}
		}
	}

	return candidates
}

// ListAccessiblePaths enumerates every rule path across policies whose
// effect is Allow and whose capability set literally names cap,
// deduplicated in first-seen order. It does not consult the path matcher
// or conditions, and it does not expand Admin implication: a rule
// granting only Admin is not reported for a ListAccessiblePaths(Read)
// query, even though that rule would satisfy a Read check at evaluation
// time. This is a static enumeration of pattern strings suitable for UI
// hints (spec §4.5.2), not a prediction of what Evaluate will decide.
func (e *Evaluator) ListAccessiblePaths(policies []Policy, cap Capability) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, pol := range policies {
		for _, rule := range pol.Rules() {
			if rule.Effect() != Allow {
				continue
			}
			if !rule.hasLiteralCapability(cap) {
				continue
			}
			if _, ok := seen[rule.Path()]; ok {
				continue
			}
			seen[rule.Path()] = struct{}{}
			out = append(out, rule.Path())
		}
	}

	return out
}

// CapabilitiesAt unions the capability lists of every Allow rule whose
// path matches and whose conditions are satisfied, deduplicated by
// capability in first-seen order. Deny rules never contribute, and
// capability implication is not expanded: a rule granting Admin yields
// Admin in the result, not every capability (spec §4.5.3).
func (e *Evaluator) CapabilitiesAt(policies []Policy, path string, ctx map[string]any) []Capability {
	seen := make(map[Capability]struct{})
	var out []Capability

	for _, pol := range policies {
		for _, rule := range pol.Rules() {
			if rule.Effect() != Allow {
				continue
			}
			if !rule.matchesPath(pathmatch.Match, path, ctx) {
				continue
			}
			if !rule.conditionsSatisfied(ctx) {
				continue
			}
			for _, cap := range rule.Capabilities() {
				if _, ok := seen[cap]; ok {
					continue
				}
				seen[cap] = struct{}{}
				out = append(out, cap)
			}
		}
	}

	return out
}
