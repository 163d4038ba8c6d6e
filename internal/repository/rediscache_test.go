package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisCacheServesFromCacheWithinTTL(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewRedisCache(backing, newTestRedisClient(t), "pathguard:policy:", time.Minute)

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

func TestRedisCacheMissFallsThroughToBacking(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewRedisCache(backing, newTestRedisClient(t), "pathguard:policy:", time.Minute)

	got, err := cache.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name() != "p1" {
		t.Errorf("Name() = %q, want p1", got.Name())
	}
}

func TestRedisCacheGetMissingReturnsError(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory()
	cache := NewRedisCache(backing, newTestRedisClient(t), "pathguard:policy:", time.Minute)

	if _, err := cache.Get(ctx, "missing"); err == nil {
		t.Error("expected error for a policy absent from both cache and backing")
	}
}

func TestRedisCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1").WithDescription("v1"))
	cache := NewRedisCache(backing, newTestRedisClient(t), "pathguard:policy:", time.Minute)

	if _, err := cache.Get(ctx, "p1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	backing.Put(mustPolicy(t, "p1").WithDescription("v2"))
	if err := cache.Invalidate(ctx, "p1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	got, err := cache.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if got.Description() != "v2" {
		t.Errorf("Description() = %q, want v2 after invalidate", got.Description())
	}
}

func TestRedisCacheAllBypassesCache(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewRedisCache(backing, newTestRedisClient(t), "pathguard:policy:", time.Minute)

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

func TestRedisCacheHasChecksCacheThenBacking(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory(mustPolicy(t, "p1"))
	cache := NewRedisCache(backing, newTestRedisClient(t), "pathguard:policy:", time.Minute)

	ok, err := cache.Has(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Has(p1) = %v, %v; want true, nil", ok, err)
	}

	ok, err = cache.Has(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("Has(missing) = %v, %v; want false, nil", ok, err)
	}
}
