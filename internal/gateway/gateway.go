package gateway

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultSpacing is the minimum gap between calls on one endpoint key.
	DefaultSpacing = 1000 * time.Millisecond

	// DefaultBackoff is slept on a throttled response when the server
	// sends no usable Retry-After header.
	DefaultBackoff = 5 * time.Second

	// WindowCooldown is slept when a request window is exhausted.
	WindowCooldown = 10 * time.Second

	maxRetries = 3
)

// windowState tracks one endpoint's rolling request window.
// Reset-check and increment happen under its own lock so concurrent
// callers cannot both pass the threshold before either records a call.
type windowState struct {
	mu    sync.Mutex
	start time.Time
	count int
}

// Gateway owns the shared rate-limit and retry state for every upstream
// endpoint. State lives for the process lifetime and is keyed by
// endpoint key; all mutation is locked per key.
type Gateway struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	windows  map[string]*windowState
	retries  map[string]int

	spacing  time.Duration
	backoff  time.Duration
	cooldown time.Duration
	metrics  *Metrics

	// sleep is swappable so tests do not wait out real cooldowns.
	sleep func(time.Duration)
	now   func() time.Time
}

// Option overrides one of the gateway's timing defaults.
type Option func(*Gateway)

// WithSpacing sets the minimum gap between calls on one endpoint key.
func WithSpacing(d time.Duration) Option {
	return func(g *Gateway) { g.spacing = d }
}

// WithBackoff sets the sleep taken on a throttled response without a
// usable Retry-After header.
func WithBackoff(d time.Duration) Option {
	return func(g *Gateway) { g.backoff = d }
}

// WithCooldown sets the sleep taken when a request window is exhausted.
func WithCooldown(d time.Duration) Option {
	return func(g *Gateway) { g.cooldown = d }
}

// New returns a Gateway with the default spacing, backoff and cooldown.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		limiters: make(map[string]*rate.Limiter),
		windows:  make(map[string]*windowState),
		retries:  make(map[string]int),
		spacing:  DefaultSpacing,
		backoff:  DefaultBackoff,
		cooldown: WindowCooldown,
		sleep:    time.Sleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithMetrics attaches prometheus counters. Safe to skip in tests.
func (g *Gateway) WithMetrics(m *Metrics) *Gateway {
	g.metrics = m
	return g
}

func (g *Gateway) limiter(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(g.spacing), 1)
		g.limiters[key] = l
	}
	return l
}

func (g *Gateway) window(key string) *windowState {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[key]
	if !ok {
		w = &windowState{start: g.now()}
		g.windows[key] = w
	}
	return w
}

// Throttle blocks until at least the configured spacing has elapsed
// since the last admitted call on key. The limiter makes the
// check-and-stamp atomic with respect to concurrent callers.
func (g *Gateway) Throttle(ctx context.Context, key string) error {
	l := g.limiter(key)
	if !l.Allow() {
		logger.Debug("Throttling endpoint", zap.String("endpoint", key))
		if g.metrics != nil {
			g.metrics.ThrottleWaits.Inc()
		}
		return l.Wait(ctx)
	}
	return nil
}

// CheckWindow counts the current call against key's request window.
// If the window is exhausted it sleeps the fixed cooldown, resets the
// window, and counts the call against the fresh window.
func (g *Gateway) CheckWindow(key string, maxPerWindow int, window time.Duration) {
	w := g.window(key)
	w.mu.Lock()
	defer w.mu.Unlock()

	now := g.now()
	if now.Sub(w.start) > window {
		w.start = now
		w.count = 0
	}

	if w.count >= maxPerWindow {
		logger.Warn("Request window exhausted, cooling down",
			zap.String("endpoint", key),
			zap.Int("maxPerWindow", maxPerWindow),
			zap.Duration("cooldown", g.cooldown))
		if g.metrics != nil {
			g.metrics.WindowsExhausted.Inc()
		}
		g.sleep(g.cooldown)
		w.start = g.now()
		w.count = 0
	}
	w.count++
}

// ShouldRetry reports whether a response should be retried. Only a 429
// triggers a governed retry: the call sleeps the server's Retry-After
// if parseable, else the default backoff, up to maxRetries per key.
// Any other status resets the key's retry counter.
func (g *Gateway) ShouldRetry(key string, status int, retryAfter string) bool {
	if status != http.StatusTooManyRequests {
		g.mu.Lock()
		g.retries[key] = 0
		g.mu.Unlock()
		return false
	}

	g.mu.Lock()
	attempts := g.retries[key]
	if attempts >= maxRetries {
		g.retries[key] = 0
		g.mu.Unlock()
		logger.Error("Retry budget exhausted for endpoint",
			zap.String("endpoint", key),
			zap.Int("maxRetries", maxRetries))
		return false
	}
	g.retries[key] = attempts + 1
	g.mu.Unlock()

	wait := g.backoff
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		wait = time.Duration(secs) * time.Second
	}

	logger.Warn("Rate limited by upstream, backing off",
		zap.String("endpoint", key),
		zap.Int("attempt", attempts+1),
		zap.Duration("wait", wait))
	if g.metrics != nil {
		g.metrics.RetriesSlept.Inc()
	}
	g.sleep(wait)
	return true
}
