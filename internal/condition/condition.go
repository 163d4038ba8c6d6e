// Package condition implements the condition language: a mapping from
// context key to an expected scalar, a set of allowed values, or a
// predicate callback, evaluated against a caller-supplied context map.
package condition

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupportedValue is returned when a condition value is not a scalar,
// a sequence, or a Predicate — the core treats this as a construction-time
// error rather than guessing at intent.
var ErrUnsupportedValue = errors.New("condition: unsupported condition value")

// Predicate is a condition value implemented as a callback. Satisfied iff
// Test returns true when invoked with the context value for the
// condition's key.
type Predicate interface {
	Test(value any) bool
}

// PredicateFunc adapts a plain function to the Predicate interface.
type PredicateFunc func(value any) bool

// Test calls f(value).
func (f PredicateFunc) Test(value any) bool { return f(value) }

// Map is a mapping from context key to expected condition value. Values
// must be a scalar (string, int, int64, float64, bool), a slice, or a
// Predicate; anything else is rejected by Validate. Validate does not
// inspect the element types of a slice.
type Map map[string]any

// Validate reports ErrUnsupportedValue if any value in m is not one of the
// three recognized shapes. Construction-time callers (Rule builders) should
// call this once rather than relying on EvaluateAll to fail silently.
func (m Map) Validate() error {
	for key, v := range m {
		if !isSupportedValue(v) {
			return fmt.Errorf("%w: key %q has type %T", ErrUnsupportedValue, key, v)
		}
	}
	return nil
}

func isSupportedValue(v any) bool {
	switch v.(type) {
	case string, int, int64, float64, bool:
		return true
	case Predicate, PredicateFunc:
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Slice
}

// EvaluateAll reports whether every condition in m is satisfied by ctx.
// An empty condition map is trivially satisfied. Evaluation short-circuits
// on the first unsatisfied condition; a key missing from ctx is always
// unsatisfied, regardless of the condition value's shape.
func EvaluateAll(conditions Map, ctx map[string]any) bool {
	if len(conditions) == 0 {
		return true
	}
	for key, expected := range conditions {
		actual, present := ctx[key]
		if !present {
			return false
		}
		if !satisfies(expected, actual) {
			return false
		}
	}
	return true
}

func satisfies(expected, actual any) bool {
	switch want := expected.(type) {
	case Predicate:
		return want.Test(actual)
	case PredicateFunc:
		return want(actual)
	default:
		rv := reflect.ValueOf(expected)
		if rv.IsValid() && rv.Kind() == reflect.Slice {
			return sliceContains(rv, actual)
		}
		return reflect.DeepEqual(expected, actual)
	}
}

func sliceContains(seq reflect.Value, actual any) bool {
	for i := 0; i < seq.Len(); i++ {
		if reflect.DeepEqual(seq.Index(i).Interface(), actual) {
			return true
		}
	}
	return false
}
