package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type payload struct {
		Geo string `json:"geo"`
	}
	if err := mc.Set(ctx, "k", payload{Geo: "Canada"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Geo != "Canada" {
		t.Errorf("geo = %s", got.Geo)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var s string
	err := mc.Get(context.Background(), "absent", &s)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var s string
	if err := mc.Get(ctx, "k", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	_ = mc.Set(ctx, "b", "2", time.Minute)
	if err := mc.DeleteByPattern(ctx, "*"); err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}

	var s string
	if err := mc.Get(ctx, "a", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	mc := NewMemoryCache(WithMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	_ = mc.Set(ctx, "b", "2", 2*time.Minute)
	_ = mc.Set(ctx, "c", "3", 3*time.Minute)

	// "a" expires soonest, so it is the one evicted.
	var s string
	if err := mc.Get(ctx, "a", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected eviction of oldest key, got %v", err)
	}
	if err := mc.Get(ctx, "c", &s); err != nil {
		t.Fatalf("newest key missing: %v", err)
	}
}
