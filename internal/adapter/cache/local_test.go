package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLocalCache_SetGetDelete(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("Get = %q, %v; want v", got, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expected miss after delete")
	}
}

func TestLocalCache_EncodesValues(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "bytes", []byte("raw"), 0); err != nil {
		t.Fatalf("Set bytes: %v", err)
	}
	if got, _ := c.Get(ctx, "bytes"); got != "raw" {
		t.Errorf("bytes value = %q, want raw", got)
	}

	if err := c.Set(ctx, "json", map[string]int{"n": 1}, 0); err != nil {
		t.Fatalf("Set struct: %v", err)
	}
	if got, _ := c.Get(ctx, "json"); got != `{"n":1}` {
		t.Errorf("json value = %q", got)
	}
}

func TestLocalCache_ExpiresEntries(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 5*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expected expired entry to miss")
	}
}
