package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/brightloom/pathguard/internal/policy"
)

func mustPolicy(t *testing.T, name string) policy.Policy {
	t.Helper()
	p, err := policy.NewPolicy(name)
	if err != nil {
		t.Fatalf("NewPolicy(%q): %v", name, err)
	}
	return p
}

func TestMemoryGetAndHas(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(mustPolicy(t, "p1"))

	if _, err := repo.Get(ctx, "p1"); err != nil {
		t.Errorf("Get(p1): %v", err)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, policy.ErrPolicyNotFound) {
		t.Errorf("Get(missing) = %v, want ErrPolicyNotFound", err)
	}

	has, _ := repo.Has(ctx, "p1")
	if !has {
		t.Error("Has(p1) = false, want true")
	}

	has, _ = repo.Has(ctx, "missing")
	if has {
		t.Error("Has(missing) = true, want false")
	}
}

func TestMemoryPutAndRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	repo.Put(mustPolicy(t, "p1"))
	if has, _ := repo.Has(ctx, "p1"); !has {
		t.Fatal("expected p1 present after Put")
	}

	repo.Remove("p1")
	if has, _ := repo.Has(ctx, "p1"); has {
		t.Error("expected p1 absent after Remove")
	}
}

func TestMemoryAllReturnsDefensiveCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(mustPolicy(t, "p1"))

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	delete(all, "p1")

	if has, _ := repo.Has(ctx, "p1"); !has {
		t.Error("mutating the map returned by All must not affect the repository")
	}
}

func TestMemoryGetManyAggregatesMisses(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(mustPolicy(t, "p1"), mustPolicy(t, "p2"))

	_, err := repo.GetMany(ctx, []string{"p1", "missing1", "missing2"})
	var multiErr *policy.MultiplePoliciesNotFoundError
	if !errors.As(err, &multiErr) {
		t.Fatalf("GetMany = %v, want *MultiplePoliciesNotFoundError", err)
	}
	if len(multiErr.Missing) != 2 {
		t.Errorf("Missing = %v, want 2 entries", multiErr.Missing)
	}
	if !errors.Is(err, policy.ErrPolicyNotFound) {
		t.Error("expected Unwrap to reach ErrPolicyNotFound")
	}
}

func TestMemoryGetManyEmptyNamesNoError(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	got, err := repo.GetMany(ctx, nil)
	if err != nil {
		t.Fatalf("GetMany(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetMany(nil) = %v, want empty", got)
	}
}

func TestMemoryGetManySuccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(mustPolicy(t, "p1"), mustPolicy(t, "p2"))

	got, err := repo.GetMany(ctx, []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("GetMany = %v, want 2 entries", got)
	}
}
