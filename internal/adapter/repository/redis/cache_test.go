package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "report", []byte(`{"rows":[]}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := cache.Get(ctx, "report")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(got) != `{"rows":[]}` {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestCacheGetMiss(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)

	got, err := cache.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("expected miss without error, got %v", err)
	}

	if got != nil {
		t.Fatalf("expected nil value on miss, got %s", got)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "stale", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "stale"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err := cache.Get(ctx, "stale")
	if err != nil || got != nil {
		t.Fatalf("expected key gone, got val=%s err=%v", got, err)
	}
}

func TestCacheIncr(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	n, err := cache.Incr(ctx, "ledger:generation")
	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}

	if n != 1 {
		t.Fatalf("expected counter to start at 1, got %d", n)
	}

	n, err = cache.Incr(ctx, "ledger:generation")
	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}

	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}
