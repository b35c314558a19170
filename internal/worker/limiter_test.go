package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "10.0.0.1"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "10.0.0.2"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if limiter.Len() != 2 {
		t.Errorf("expected 2 tracked keys, got %d", limiter.Len())
	}
}

func TestLimiter_AllowPerKey(t *testing.T) {
	limiter := NewLimiter(1, 2)

	if !limiter.Allow("a") || !limiter.Allow("a") {
		t.Fatal("burst of 2 should be allowed")
	}
	if limiter.Allow("a") {
		t.Error("third immediate request should be rejected")
	}
	if !limiter.Allow("b") {
		t.Error("other keys have their own bucket")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("client") {
			t.Fatalf("request %d rejected with limiting disabled", i)
		}
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "client"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Second request must wait ~1s; a short deadline fails fast
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "client"); err == nil {
		t.Error("expected rate limit error with short timeout")
	}
}

func TestLimiter_SetKeyRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetKeyRate("trusted", 1000, 0)

	for i := 0; i < 5; i++ {
		if err := limiter.Wait(context.Background(), "trusted"); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}
}

func TestLimiter_Prune(t *testing.T) {
	limiter := NewLimiter(1, 1)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	limiter.Allow("old")
	limiter.SetKeyRate("pinned", 10, 1)

	clock = clock.Add(10 * time.Minute)
	limiter.Allow("fresh")

	if n := limiter.Prune(5 * time.Minute); n != 1 {
		t.Errorf("expected 1 pruned bucket, got %d", n)
	}
	if limiter.Len() != 2 {
		t.Errorf("expected fresh and pinned buckets to remain, got %d", limiter.Len())
	}

	// A pruned client starts over with a full burst
	if !limiter.Allow("old") {
		t.Error("pruned key should get a fresh bucket")
	}
}
