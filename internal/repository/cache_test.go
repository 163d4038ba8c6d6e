package repository

import (
	"context"
	"testing"
	"time"
)

func TestCacheServesFromCacheWithinTTL(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewCache(backing, time.Minute)

	if _, err := cache.Get(ctx, "p1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	backing.Remove("p1")

	got, err := cache.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("expected cached hit after backing removal, got error: %v", err)
	}
	if got.Name() != "p1" {
		t.Errorf("Name() = %q, want p1", got.Name())
	}
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewCache(backing, time.Nanosecond)

	if _, err := cache.Get(ctx, "p1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	time.Sleep(time.Millisecond)
	backing.Remove("p1")

	if _, err := cache.Get(ctx, "p1"); err == nil {
		t.Error("expected expired cache entry to fall through to backing and miss")
	}
}

func TestCacheZeroTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewCache(backing, 0)

	if _, err := cache.Get(ctx, "p1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	backing.Remove("p1")
	if _, err := cache.Get(ctx, "p1"); err == nil {
		t.Error("expected zero TTL to disable caching entirely")
	}
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1").WithDescription("v1"))
	cache := NewCache(backing, time.Minute)

	if _, err := cache.Get(ctx, "p1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	backing.Put(mustPolicy(t, "p1").WithDescription("v2"))
	cache.Invalidate("p1")

	got, err := cache.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if got.Description() != "v2" {
		t.Errorf("Description() = %q, want v2 after invalidate", got.Description())
	}
}

func TestCacheAllBypassesCache(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewCache(backing, time.Minute)

	if _, err := cache.Get(ctx, "p1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	backing.Put(mustPolicy(t, "p2"))

	all, err := cache.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("All = %v, want 2 entries reflecting live backing state", all)
	}
}
