package cache

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key1", "value1", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	value, found, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !found {
		t.Fatal("expected key1 to be found")
	}
	if value != "value1" {
		t.Errorf("expected value1, got %s", value)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache()

	_, found, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if found {
		t.Error("expected missing key to not be found")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	if err := c.Set(ctx, "ephemeral", "gone soon", 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, found, err := c.Get(ctx, "ephemeral")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if found {
		t.Error("expected expired key to not be found")
	}
}

func TestCacheDel(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	c.Set(ctx, "a", "1", time.Minute)
	c.Set(ctx, "b", "2", time.Minute)

	if err := c.Del(ctx, "a", "b"); err != nil {
		t.Fatalf("Del returned error: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if _, found, _ := c.Get(ctx, key); found {
			t.Errorf("expected %s to be deleted", key)
		}
	}
}
