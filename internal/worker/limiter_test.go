package worker

import (
	"context"
	"testing"
	"time"
)

func TestThrottle_New(t *testing.T) {
	throttle := NewThrottle(10, 5)
	if throttle.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", throttle.defaultBurst)
	}

	t2 := NewThrottle(10, -1)
	if t2.defaultBurst != 2 {
		t.Errorf("expected default burst 2 for negative input, got %d", t2.defaultBurst)
	}
}

func TestThrottle_Wait(t *testing.T) {
	throttle := NewThrottle(100, 1)
	ctx := context.Background()

	if err := throttle.Wait(ctx, "https://api.github.com/search/repositories"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host has its own bucket
	if err := throttle.Wait(ctx, "https://pypi.org/simple/"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestThrottle_PerHostBuckets(t *testing.T) {
	throttle := NewThrottle(1, 1)

	if err := throttle.Wait(context.Background(), "https://api.github.com/a"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	// Token consumed for api.github.com
	if throttle.Allow("https://api.github.com/b") {
		t.Error("expected allow to fail after token exhaustion")
	}

	// Other hosts unaffected
	if !throttle.Allow("https://www.reddit.com/search.json") {
		t.Error("expected allow for a different host")
	}
}

func TestThrottle_SetHostRate(t *testing.T) {
	throttle := NewThrottle(10, 10)
	throttle.SetHostRate("slow.example.com", 0.001, 1)

	if !throttle.Allow("https://slow.example.com/x") {
		t.Error("expected first request to be allowed")
	}
	if throttle.Allow("https://slow.example.com/y") {
		t.Error("expected second request to be throttled")
	}
}

func TestSleep_HonorsDelay(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), 50*time.Millisecond); err != nil {
		t.Fatalf("sleep failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", elapsed)
	}
}

func TestSleep_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Minute); err == nil {
		t.Error("expected error from cancelled context")
	}
}
