// Package policy implements the pathguard policy data model, the
// specificity calculator, and the evaluation algorithm (spec.md §3–4.5).
package policy

import (
	"fmt"
	"strings"

	"github.com/brightloom/pathguard/internal/condition"
	"github.com/brightloom/pathguard/internal/unicode"
)

// Effect is a closed variant over the two outcomes a Rule can produce.
type Effect int

const (
	// Allow grants a capability on a matching path, subject to conditions.
	Allow Effect = iota
	// Deny forbids every capability on a matching path, subject to
	// conditions, and takes precedence over any Allow (spec §4.5.1 step 4).
	Deny
)

// String renders the lowercase serialized form of Effect.
func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// ParseEffect parses a case-insensitive "allow"/"deny" string. Any other
// value is ErrUnknownEffect.
func ParseEffect(s string) (Effect, error) {
	switch strings.ToLower(s) {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	default:
		return Allow, fmt.Errorf("%w: %q", ErrUnknownEffect, s)
	}
}

// Capability is a closed variant over the action kinds a Rule can grant.
type Capability int

const (
	Read Capability = iota
	List
	Create
	Update
	Delete
	// Admin implies every other capability (Implies).
	Admin
)

var capabilityNames = [...]string{"read", "list", "create", "update", "delete", "admin"}

// String renders the lowercase serialized form of Capability.
func (c Capability) String() string {
	if c < 0 || int(c) >= len(capabilityNames) {
		return fmt.Sprintf("capability(%d)", int(c))
	}
	return capabilityNames[c]
}

// ParseCapability parses a case-insensitive capability name. Any value
// outside the closed set is ErrUnknownCapability.
func ParseCapability(s string) (Capability, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for i, name := range capabilityNames {
		if name == normalized {
			return Capability(i), nil
		}
	}
	return Read, fmt.Errorf("%w: %q", ErrUnknownCapability, s)
}

// Implies reports whether capability a satisfies a check for capability b.
// a implies b iff a is Admin or a equals b.
func (a Capability) Implies(b Capability) bool {
	return a == Admin || a == b
}

// anyImplies reports whether any capability in the set implies b.
func anyImplies(set []Capability, b Capability) bool {
	for _, a := range set {
		if a.Implies(b) {
			return true
		}
	}
	return false
}

// Rule is a single immutable (path-pattern, effect, capability set,
// condition set) row. Every "With*" method returns a new Rule; none mutate
// the receiver.
type Rule struct {
	path         string
	effect       Effect
	capabilities []Capability
	conditions   condition.Map
	description  string
}

// NewRule constructs a Rule with the given pattern. Effect defaults to
// Allow; capabilities, conditions, and description default to empty.
// ErrInvalidPolicyData is returned if path is empty.
func NewRule(path string) (Rule, error) {
	if path == "" {
		return Rule{}, fmt.Errorf("%w: rule path must not be empty", ErrInvalidPolicyData)
	}
	if threat, ok := blockingSmugglingThreat(path); ok {
		return Rule{}, fmt.Errorf("%w: rule path contains %s (%s)", ErrInvalidPolicyData, threat.Category, threat.Codepoint)
	}
	return Rule{path: path, effect: Allow}, nil
}

// blockingSmugglingThreat reports the first block-severity Unicode
// smuggling threat in path, if any. Audit-severity findings such as a
// lone Cyrillic homoglyph are not rejected here: they are a judgment
// call for the policy author, not a malformed document.
func blockingSmugglingThreat(path string) (unicode.Threat, bool) {
	for _, threat := range unicode.Scan(path).Threats {
		if threat.Severity == "block" {
			return threat, true
		}
	}
	return unicode.Threat{}, false
}

// Path returns the rule's pattern string.
func (r Rule) Path() string { return r.path }

// Effect returns the rule's effect.
func (r Rule) Effect() Effect { return r.effect }

// Capabilities returns a copy of the rule's capability sequence.
func (r Rule) Capabilities() []Capability {
	out := make([]Capability, len(r.capabilities))
	copy(out, r.capabilities)
	return out
}

// Conditions returns the rule's condition map.
func (r Rule) Conditions() condition.Map { return r.conditions }

// Description returns the rule's human-readable description, if any.
func (r Rule) Description() string { return r.description }

// WithEffect returns a copy of r with the given effect.
func (r Rule) WithEffect(e Effect) Rule {
	r.effect = e
	return r
}

// WithCapabilities returns a copy of r with the given capability sequence.
// Duplicates are permitted; they are semantically equivalent to the set.
func (r Rule) WithCapabilities(caps ...Capability) Rule {
	r.capabilities = append([]Capability(nil), caps...)
	return r
}

// WithConditions returns a copy of r with the given condition map.
func (r Rule) WithConditions(c condition.Map) Rule {
	r.conditions = c
	return r
}

// WithDescription returns a copy of r with the given description.
func (r Rule) WithDescription(d string) Rule {
	r.description = d
	return r
}

// matchesPath reports whether the rule's pattern matches path under ctx.
func (r Rule) matchesPath(matchFn func(pattern, path string, ctx map[string]any) bool, path string, ctx map[string]any) bool {
	return matchFn(r.path, path, ctx)
}

// conditionsSatisfied reports whether every condition on the rule is met.
func (r Rule) conditionsSatisfied(ctx map[string]any) bool {
	return condition.EvaluateAll(r.conditions, ctx)
}

// grantsCapability reports whether the rule's capability set implies cap.
func (r Rule) grantsCapability(cap Capability) bool {
	return anyImplies(r.capabilities, cap)
}

// hasLiteralCapability reports whether cap is named in the rule's
// capability set exactly, without expanding Admin implication.
func (r Rule) hasLiteralCapability(cap Capability) bool {
	for _, c := range r.capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// Policy is an immutable named bundle of rules. Rule order is part of
// policy semantics: it breaks specificity ties and is preserved across
// serialization round-trips.
type Policy struct {
	name        string
	description string
	rules       []Rule
}

// NewPolicy constructs a Policy. ErrInvalidPolicyData is returned if name
// is empty.
func NewPolicy(name string) (Policy, error) {
	if name == "" {
		return Policy{}, fmt.Errorf("%w: policy name must not be empty", ErrInvalidPolicyData)
	}
	return Policy{name: name}, nil
}

// Name returns the policy's unique identifier.
func (p Policy) Name() string { return p.name }

// Description returns the policy's description.
func (p Policy) Description() string { return p.description }

// Rules returns a copy of the policy's ordered rule sequence.
func (p Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// WithDescription returns a copy of p with the given description.
func (p Policy) WithDescription(d string) Policy {
	p.description = d
	return p
}

// WithRules returns a copy of p with the given rule sequence, replacing any
// existing rules.
func (p Policy) WithRules(rules ...Rule) Policy {
	p.rules = append([]Rule(nil), rules...)
	return p
}

// AddRule returns a copy of p with r appended to the end of its rule list.
func (p Policy) AddRule(r Rule) Policy {
	p.rules = append(append([]Rule(nil), p.rules...), r)
	return p
}

// EvaluationResult is the outcome of a single evaluate call.
//
// Invariants: Allowed == true implies ExplicitDeny == false and both
// MatchedRule and MatchedPolicy are present. Allowed == false with no
// MatchedRule implies ExplicitDeny == false (implicit deny).
type EvaluationResult struct {
	Allowed           bool
	ExplicitDeny      bool
	MatchedRule       *Rule
	MatchedPolicy     *Policy
	Reason            string
	EvaluatedPolicies []Policy
}
