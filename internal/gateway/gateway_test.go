package gateway

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"
)

func newTestGateway() (*Gateway, *[]time.Duration) {
	g := New()
	slept := &[]time.Duration{}
	var mu sync.Mutex
	g.sleep = func(d time.Duration) {
		mu.Lock()
		*slept = append(*slept, d)
		mu.Unlock()
	}
	return g, slept
}

func TestCheckWindowExhaustion(t *testing.T) {
	g, slept := newTestGateway()

	for i := 0; i < 50; i++ {
		g.CheckWindow("similar", 50, time.Minute)
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no cooldowns within the window, got %d", len(*slept))
	}

	// 51st call must block for the cooldown and reset the window.
	g.CheckWindow("similar", 50, time.Minute)
	if len(*slept) != 1 {
		t.Fatalf("expected 1 cooldown, got %d", len(*slept))
	}
	if (*slept)[0] != WindowCooldown {
		t.Fatalf("cooldown: got %v, want %v", (*slept)[0], WindowCooldown)
	}

	// The reset window already holds the 51st call; 49 more fit.
	for i := 0; i < 49; i++ {
		g.CheckWindow("similar", 50, time.Minute)
	}
	if len(*slept) != 1 {
		t.Fatalf("expected no extra cooldowns after reset, got %d", len(*slept))
	}
}

func TestCheckWindowResetsAfterElapse(t *testing.T) {
	g, slept := newTestGateway()
	current := time.Now()
	g.now = func() time.Time { return current }

	for i := 0; i < 50; i++ {
		g.CheckWindow("features", 50, time.Minute)
	}

	// Advance past the window; the next call starts a fresh one.
	current = current.Add(61 * time.Second)
	g.CheckWindow("features", 50, time.Minute)
	if len(*slept) != 0 {
		t.Fatalf("expected no cooldown after window elapsed, got %d", len(*slept))
	}
}

func TestCheckWindowConcurrent(t *testing.T) {
	g, slept := newTestGateway()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 6; j++ {
				g.CheckWindow("shared", 50, time.Minute)
			}
		}()
	}
	wg.Wait()

	// 60 calls against a 50-call window: exactly one cooldown, after
	// which the overflow fits in the reset window.
	if len(*slept) != 1 {
		t.Fatalf("expected exactly 1 cooldown under concurrency, got %d", len(*slept))
	}
	w := g.window("shared")
	if w.count > 50 {
		t.Fatalf("window recorded %d calls, max is 50", w.count)
	}
}

func TestShouldRetry(t *testing.T) {
	g, slept := newTestGateway()

	// Three throttled responses are retried, the fourth is not.
	for i := 0; i < 3; i++ {
		if !g.ShouldRetry("tags", http.StatusTooManyRequests, "") {
			t.Fatalf("attempt %d: expected retry", i+1)
		}
	}
	if g.ShouldRetry("tags", http.StatusTooManyRequests, "") {
		t.Fatal("expected retry budget to be exhausted")
	}
	if len(*slept) != 3 {
		t.Fatalf("expected 3 backoff sleeps, got %d", len(*slept))
	}

	// The cap reset the counter, so throttling is retryable again.
	if !g.ShouldRetry("tags", http.StatusTooManyRequests, "") {
		t.Fatal("expected counter reset after exhaustion")
	}

	// Success clears the counter.
	if g.ShouldRetry("tags", http.StatusOK, "") {
		t.Fatal("200 must not trigger a retry")
	}
	if g.retries["tags"] != 0 {
		t.Fatalf("retry counter not cleared, got %d", g.retries["tags"])
	}

	// Server errors propagate instead of retrying.
	if g.ShouldRetry("tags", http.StatusBadGateway, "") {
		t.Fatal("502 must not trigger a retry")
	}
}

func TestShouldRetryHonorsRetryAfter(t *testing.T) {
	g, slept := newTestGateway()

	if !g.ShouldRetry("top-tracks", http.StatusTooManyRequests, "7") {
		t.Fatal("expected retry")
	}
	if (*slept)[0] != 7*time.Second {
		t.Fatalf("Retry-After sleep: got %v, want 7s", (*slept)[0])
	}

	// Garbage header falls back to the default backoff.
	if !g.ShouldRetry("top-tracks", http.StatusTooManyRequests, "soon") {
		t.Fatal("expected retry")
	}
	if (*slept)[1] != DefaultBackoff {
		t.Fatalf("default backoff: got %v, want %v", (*slept)[1], DefaultBackoff)
	}
}

func TestThrottleSpacing(t *testing.T) {
	g, _ := newTestGateway()
	g.spacing = 20 * time.Millisecond
	ctx := context.Background()

	start := time.Now()
	if err := g.Throttle(ctx, "similar"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := g.Throttle(ctx, "similar"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("second call admitted after %v, want >= 20ms", elapsed)
	}

	// Independent keys do not share spacing.
	start = time.Now()
	if err := g.Throttle(ctx, "other"); err != nil {
		t.Fatalf("other key: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Fatalf("other key blocked for %v, want immediate", elapsed)
	}
}

func TestThrottleCancellation(t *testing.T) {
	g, _ := newTestGateway()
	g.spacing = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	if err := g.Throttle(ctx, "slow"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	cancel()
	if err := g.Throttle(ctx, "slow"); err == nil {
		t.Fatal("expected context error on canceled throttle")
	}
}
