package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, "test")
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get(ctx, "missing"); found {
		t.Error("expected miss on empty cache")
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get(ctx, "k")
	if !found || string(val) != "v" {
		t.Errorf("Get = %q, %v", val, found)
	}
	c.Delete(ctx, "k")
	if _, found := c.Get(ctx, "k"); found {
		t.Error("expected miss after delete")
	}
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)

	if err := c.Set(ctx, "summary", []byte(`{"total":60872}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get(ctx, "summary")
	if !found || string(val) != `{"total":60872}` {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get(ctx, "summary"); found {
		t.Error("expected miss after clear")
	}
}

func TestLayeredCache_PromotesSharedHits(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	shared := newTestRedis(t)
	c := NewLayeredCache(local, shared)

	// Seed only the shared tier.
	if err := shared.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}
	val, found := c.Get(ctx, "k")
	if !found || string(val) != "v" {
		t.Fatalf("Get = %q, %v", val, found)
	}
	if _, found := local.Get(ctx, "k"); !found {
		t.Error("shared hit should be promoted to local tier")
	}
}

func TestLayeredCache_DeleteClearsBothTiers(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	shared := newTestRedis(t)
	c := NewLayeredCache(local, shared)

	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")
	if _, found := local.Get(ctx, "k"); found {
		t.Error("local tier should be cleared")
	}
	if _, found := shared.Get(ctx, "k"); found {
		t.Error("shared tier should be cleared")
	}
}

func TestKeyIsStable(t *testing.T) {
	a := Key("/api/analysis/summary")
	b := Key("/api/analysis/summary")
	if a != b {
		t.Errorf("Key not deterministic: %s vs %s", a, b)
	}
	if a == Key("/api/keywords") {
		t.Error("distinct paths should produce distinct keys")
	}
}
