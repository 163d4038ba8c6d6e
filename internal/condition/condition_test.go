package condition

import "testing"

func TestEvaluateAllEmpty(t *testing.T) {
	if !EvaluateAll(Map{}, map[string]any{}) {
		t.Error("empty condition map should be trivially satisfied")
	}
}

func TestEvaluateAllScalar(t *testing.T) {
	conditions := Map{"role": "admin"}

	if !EvaluateAll(conditions, map[string]any{"role": "admin"}) {
		t.Error("expected scalar equality to be satisfied")
	}
	if EvaluateAll(conditions, map[string]any{"role": "user"}) {
		t.Error("expected scalar mismatch to be unsatisfied")
	}
}

func TestEvaluateAllMissingKeyFails(t *testing.T) {
	conditions := Map{"role": "admin"}
	if EvaluateAll(conditions, map[string]any{}) {
		t.Error("missing key should never satisfy a condition")
	}
}

func TestEvaluateAllSequenceMembership(t *testing.T) {
	conditions := Map{"role": []string{"admin", "owner"}}

	if !EvaluateAll(conditions, map[string]any{"role": "owner"}) {
		t.Error("expected membership match")
	}
	if EvaluateAll(conditions, map[string]any{"role": "guest"}) {
		t.Error("expected no membership match")
	}
}

func TestEvaluateAllPredicate(t *testing.T) {
	conditions := Map{"age": PredicateFunc(func(v any) bool {
		age, ok := v.(int)
		return ok && age >= 18
	})}

	if !EvaluateAll(conditions, map[string]any{"age": 21}) {
		t.Error("expected predicate to be satisfied")
	}
	if EvaluateAll(conditions, map[string]any{"age": 10}) {
		t.Error("expected predicate to be unsatisfied")
	}
}

func TestEvaluateAllLogicalAnd(t *testing.T) {
	conditions := Map{
		"role":   "admin",
		"active": true,
	}

	ctx := map[string]any{"role": "admin", "active": false}
	if EvaluateAll(conditions, ctx) {
		t.Error("expected AND semantics: one unsatisfied condition fails the whole set")
	}
}

func TestValidateRejectsUnsupportedValue(t *testing.T) {
	conditions := Map{"role": map[string]string{"nested": "map"}}
	if err := conditions.Validate(); err == nil {
		t.Error("expected Validate to reject an unsupported value shape")
	}
}

func TestValidateAcceptsSupportedShapes(t *testing.T) {
	conditions := Map{
		"role":   "admin",
		"count":  3,
		"active": true,
		"tags":   []string{"a", "b"},
		"custom": PredicateFunc(func(any) bool { return true }),
	}
	if err := conditions.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
