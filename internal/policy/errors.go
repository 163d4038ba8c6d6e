package policy

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds raised by policy construction, serialization, and usage.
// The evaluator itself never returns these for well-formed input: a
// decision is always reported via EvaluationResult (spec §7).
var (
	ErrInvalidPolicyData = errors.New("policy: invalid policy data")
	ErrUnknownCapability = errors.New("policy: unknown capability")
	ErrUnknownEffect     = errors.New("policy: unknown effect")
	ErrUsage             = errors.New("policy: usage error")
)

// ErrPolicyNotFound is raised by a repository lookup by name that
// misses. Defined here so callers across packages compare against one
// sentinel via errors.Is.
var ErrPolicyNotFound = errors.New("policy: not found")

// MultiplePoliciesNotFoundError is raised by a batch repository lookup
// when any requested name is missing. It carries every missing name.
type MultiplePoliciesNotFoundError struct {
	Missing []string
}

func (e *MultiplePoliciesNotFoundError) Error() string {
	return fmt.Sprintf("policy: not found: %s", strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is(err, ErrPolicyNotFound) succeed for a multi-miss
// error, since it is a batched instance of the same failure kind.
func (e *MultiplePoliciesNotFoundError) Unwrap() error { return ErrPolicyNotFound }
