package worker

import (
	"context"
	"testing"
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

	if err := limiter.Wait(ctx, "http://scoring.internal/score"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A second host has its own bucket
	if err := limiter.Wait(ctx, "http://other.internal"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1: the second immediate call must not be allowed
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://scoring.internal"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("http://other.internal") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "slow.internal"

	limiter.SetHostRate(host, 0.1, 1)

	if !limiter.Allow("http://" + host) {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("http://" + host) {
		t.Errorf("second request should fail")
	}

	// Other host keeps the default rate
	if !limiter.Allow("http://fast.internal") {
		t.Errorf("other host should pass")
	}
}

func TestLimiter_WaitCanceledContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx := context.Background()
	url := "http://scoring.internal"

	// Drain the burst, then a canceled context must not block
	if err := limiter.Wait(ctx, url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := limiter.Wait(canceled, url); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("http://scoring.internal/score")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "scoring.internal" {
		t.Errorf("expected scoring.internal, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
