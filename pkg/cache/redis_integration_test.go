//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("STRATA_REDIS_ADDR")
	if addr == "" {
		t.Skip("STRATA_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewRedisCache(addr).(*RedisCache)
	defer c.Close()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}

	key := NewScopedKeyer(nil, "strata:test:").LayoutKey(Hash([]byte(t.Name())), LayoutKeyOpts{})
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(got) != "value" {
		t.Fatalf("Get() = %q, %v, %v, want value hit", got, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get() after Delete() should miss")
	}
}
