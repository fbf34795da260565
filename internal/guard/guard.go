// Package guard protects the contact submission pipeline with per-IP
// fixed-window rate limiting, a token bucket for bursts, and a
// post-submission cooldown.
package guard

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RateLimitError reports that an IP exceeded its submission window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// Config holds submission guard settings.
type Config struct {
	// Window is the fixed rate limit window (default: 1 minute).
	Window time.Duration
	// MaxPerWindow is the number of submissions allowed per IP per window (default: 5).
	MaxPerWindow int
	// Cooldown is the minimum wait between accepted submissions per IP (default: 1 minute).
	Cooldown time.Duration
	// BurstRate is token bucket refill in requests per second (default: 1).
	BurstRate float64
	// BurstSize is the token bucket capacity (default: 5).
	BurstSize int
	// MaxTrackedIPs caps the tracking maps before they are cleared (default: 10000).
	MaxTrackedIPs int
	// SweepInterval controls how often stale entries are removed (default: 10 minutes).
	SweepInterval time.Duration
	// Now supplies the current time, overridable in tests.
	Now func() time.Time
}

type windowBucket struct {
	count   int
	resetAt time.Time
}

type cooldownEntry struct {
	allowAt time.Time
	message string
}

// Guard tracks per-IP submission state.
type Guard struct {
	limiters *limiterCache[string]

	buckets   map[string]*windowBucket
	cooldowns map[string]*cooldownEntry
	mu        sync.Mutex

	window        time.Duration
	maxPerWindow  int
	cooldown      time.Duration
	maxTrackedIPs int
	now           func() time.Time

	stopCh chan struct{}
	once   sync.Once
}

// New creates a submission guard and starts its sweep goroutine.
func New(cfg Config) *Guard {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.MaxPerWindow <= 0 {
		cfg.MaxPerWindow = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	if cfg.BurstRate <= 0 {
		cfg.BurstRate = 1
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 5
	}
	if cfg.MaxTrackedIPs <= 0 {
		cfg.MaxTrackedIPs = 10000
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 10 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	g := &Guard{
		limiters:      newLimiterCache[string](cfg.BurstRate, cfg.BurstSize),
		buckets:       make(map[string]*windowBucket),
		cooldowns:     make(map[string]*cooldownEntry),
		window:        cfg.Window,
		maxPerWindow:  cfg.MaxPerWindow,
		cooldown:      cfg.Cooldown,
		maxTrackedIPs: cfg.MaxTrackedIPs,
		now:           cfg.Now,
		stopCh:        make(chan struct{}),
	}

	go g.sweep(cfg.SweepInterval)

	return g
}

// Allow records a submission attempt for an IP and returns a
// *RateLimitError when the window or burst budget is exhausted.
func (g *Guard) Allow(ip string) error {
	if ip == "" {
		ip = "unknown"
	}

	now := g.now()

	g.mu.Lock()
	bucket, exists := g.buckets[ip]
	if !exists || bucket.resetAt.Before(now) {
		g.buckets[ip] = &windowBucket{count: 1, resetAt: now.Add(g.window)}
		g.mu.Unlock()
		g.limiters.get(ip).Allow()
		return nil
	}

	if bucket.count >= g.maxPerWindow {
		retryAfter := bucket.resetAt.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		g.mu.Unlock()
		return &RateLimitError{RetryAfter: retryAfter}
	}

	bucket.count++
	g.mu.Unlock()

	if !g.limiters.get(ip).Allow() {
		return &RateLimitError{RetryAfter: g.window}
	}
	return nil
}

// StartCooldown opens a cooldown period for an IP. The message is shown
// on subsequent visits until the cooldown expires.
func (g *Guard) StartCooldown(ip, message string) {
	if ip == "" {
		ip = "unknown"
	}

	g.mu.Lock()
	g.cooldowns[ip] = &cooldownEntry{
		allowAt: g.now().Add(g.cooldown),
		message: message,
	}
	g.mu.Unlock()
}

// Cooldown returns the remaining cooldown and its message for an IP.
// A zero duration means no cooldown is active.
func (g *Guard) Cooldown(ip string) (time.Duration, string) {
	if ip == "" {
		ip = "unknown"
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	entry, exists := g.cooldowns[ip]
	if !exists {
		return 0, ""
	}

	remaining := entry.allowAt.Sub(g.now())
	if remaining <= 0 {
		delete(g.cooldowns, ip)
		return 0, ""
	}
	return remaining, entry.message
}

// Close stops the sweep goroutine.
func (g *Guard) Close() {
	g.once.Do(func() {
		close(g.stopCh)
	})
}

func (g *Guard) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.removeStale()
		case <-g.stopCh:
			return
		}
	}
}

func (g *Guard) removeStale() {
	now := g.now()

	if g.limiters.clearIfExceeds(g.maxTrackedIPs) {
		slog.Info("cleared burst limiters due to size")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for ip, bucket := range g.buckets {
		if bucket.resetAt.Before(now) {
			delete(g.buckets, ip)
		}
	}
	for ip, entry := range g.cooldowns {
		if !entry.allowAt.After(now) {
			delete(g.cooldowns, ip)
		}
	}

	if len(g.buckets) > g.maxTrackedIPs {
		g.buckets = make(map[string]*windowBucket)
		slog.Info("cleared rate limit buckets due to size")
	}
	if len(g.cooldowns) > g.maxTrackedIPs {
		g.cooldowns = make(map[string]*cooldownEntry)
		slog.Info("cleared cooldown entries due to size")
	}
}
