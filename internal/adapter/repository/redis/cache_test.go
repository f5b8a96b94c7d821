package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "report:2025-01-01:2025-01-31:3", []byte(`{"net":"70"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "report:2025-01-01:2025-01-31:3")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `{"net":"70"}` {
		t.Fatalf("unexpected cached value %s", val)
	}

	if !mr.Exists("rentledger:cache:report:2025-01-01:2025-01-31:3") {
		t.Fatalf("expected prefixed key in redis, got %v", mr.Keys())
	}
}

func TestCacheMissIsNotAnError(t *testing.T) {
	client, _ := newTestRedisClient(t)

	val, err := NewCache(client).Get(context.Background(), "absent")
	if err != nil || val != nil {
		t.Fatalf("expected clean miss, got val=%v err=%v", val, err)
	}
}

func TestCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	val, err := cache.Get(ctx, "k")
	if err != nil || val != nil {
		t.Fatalf("expected expired key to miss, got val=%s err=%v", val, err)
	}
}

func TestCacheSetNX(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	set, err := cache.SetNX(ctx, "key", []byte("first"), time.Minute)
	if err != nil || !set {
		t.Fatalf("expected first SetNX to succeed, got set=%v err=%v", set, err)
	}

	set, err = cache.SetNX(ctx, "key", []byte("second"), time.Minute)
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if set {
		t.Fatalf("expected second SetNX to fail because key exists")
	}
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "foo"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if val, _ := cache.Get(ctx, "foo"); val != nil {
		t.Fatalf("expected deleted key to miss, got %s", val)
	}
}
