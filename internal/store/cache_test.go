package store

import (
	"context"
	"testing"
)

func TestMemoryCacheRoundTrips(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if _, ok := c.GetReply(ctx, "s-1"); ok {
		t.Fatalf("empty cache must miss")
	}

	c.SetReply(ctx, "s-1", []byte(`{"answer": "hi"}`))
	raw, ok := c.GetReply(ctx, "s-1")
	if !ok || string(raw) != `{"answer": "hi"}` {
		t.Fatalf("reply = %q/%v", raw, ok)
	}
	if _, ok := c.GetReply(ctx, "s-2"); ok {
		t.Fatalf("keys must not bleed across sessions")
	}

	c.SetPayment(ctx, "ORD-1", "CONFIRMED")
	if status, ok := c.GetPayment(ctx, "ORD-1"); !ok || status != "CONFIRMED" {
		t.Fatalf("payment = %q/%v", status, ok)
	}

	c.SetCurrentOrder(ctx, "sess-key", "ORD-1")
	if order, ok := c.GetCurrentOrder(ctx, "sess-key"); !ok || order != "ORD-1" {
		t.Fatalf("current order = %q/%v", order, ok)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	c.SetPayment(ctx, "ORD-1", "PENDING")
	c.SetPayment(ctx, "ORD-1", "CONFIRMED")
	if status, _ := c.GetPayment(ctx, "ORD-1"); status != "CONFIRMED" {
		t.Fatalf("status = %q, want latest write", status)
	}
}
