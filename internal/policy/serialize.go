package policy

import (
	"fmt"

	"github.com/brightloom/pathguard/internal/condition"
)

// RuleDocument is the wire shape of a Rule for structured serialization
// (spec §6.1). Field order and defaults match the specification exactly so
// that RuleFromDocument(r.ToDocument()) is structurally equal to r.
type RuleDocument struct {
	Path         string         `json:"path" yaml:"path"`
	Effect       string         `json:"effect,omitempty" yaml:"effect,omitempty"`
	Capabilities []string       `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Conditions   map[string]any `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
}

// PolicyDocument is the wire shape of a Policy.
type PolicyDocument struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []RuleDocument `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// ToDocument converts r into its wire representation.
func (r Rule) ToDocument() RuleDocument {
	caps := make([]string, len(r.capabilities))
	for i, c := range r.capabilities {
		caps[i] = c.String()
	}

	var conditions map[string]any
	if len(r.conditions) > 0 {
		conditions = make(map[string]any, len(r.conditions))
		for k, v := range r.conditions {
			conditions[k] = v
		}
	}

	return RuleDocument{
		Path:         r.path,
		Effect:       r.effect.String(),
		Capabilities: caps,
		Conditions:   conditions,
		Description:  r.description,
	}
}

// RuleFromDocument parses a wire document into a Rule, applying defaults
// (effect "allow", empty capabilities/conditions/description) and
// returning ErrInvalidPolicyData (also wrapping condition.ErrUnsupportedValue
// for a malformed condition map) or ErrUnknownCapability/ErrUnknownEffect
// for malformed input.
func RuleFromDocument(doc RuleDocument) (Rule, error) {
	if doc.Path == "" {
		return Rule{}, fmt.Errorf("%w: rule missing path", ErrInvalidPolicyData)
	}

	effect := Allow
	if doc.Effect != "" {
		var err error
		effect, err = ParseEffect(doc.Effect)
		if err != nil {
			return Rule{}, err
		}
	}

	caps := make([]Capability, len(doc.Capabilities))
	for i, name := range doc.Capabilities {
		cap, err := ParseCapability(name)
		if err != nil {
			return Rule{}, err
		}
		caps[i] = cap
	}

	var conditions map[string]any
	if len(doc.Conditions) > 0 {
		conditions = make(map[string]any, len(doc.Conditions))
		for k, v := range doc.Conditions {
			conditions[k] = v
		}
		if err := condition.Map(conditions).Validate(); err != nil {
			return Rule{}, fmt.Errorf("%w: %w", ErrInvalidPolicyData, err)
		}
	}

	rule, err := NewRule(doc.Path)
	if err != nil {
		return Rule{}, err
	}
	rule = rule.WithEffect(effect).WithCapabilities(caps...).WithConditions(conditions).WithDescription(doc.Description)
	return rule, nil
}

// ToDocument converts p into its wire representation, preserving rule
// order and each rule's capability order.
func (p Policy) ToDocument() PolicyDocument {
	rules := make([]RuleDocument, len(p.rules))
	for i, r := range p.rules {
		rules[i] = r.ToDocument()
	}
	return PolicyDocument{
		Name:        p.name,
		Description: p.description,
		Rules:       rules,
	}
}

// FromDocument parses a wire document into a Policy. ErrInvalidPolicyData
// is returned if name is missing; per-rule errors (ErrInvalidPolicyData,
// ErrUnknownCapability, ErrUnknownEffect) propagate from the first
// offending rule.
func FromDocument(doc PolicyDocument) (Policy, error) {
	if doc.Name == "" {
		return Policy{}, fmt.Errorf("%w: policy missing name", ErrInvalidPolicyData)
	}

	rules := make([]Rule, len(doc.Rules))
	for i, rd := range doc.Rules {
		rule, err := RuleFromDocument(rd)
		if err != nil {
			return Policy{}, err
		}
		rules[i] = rule
	}

	pol, err := NewPolicy(doc.Name)
	if err != nil {
		return Policy{}, err
	}
	pol = pol.WithDescription(doc.Description).WithRules(rules...)
	return pol, nil
}
