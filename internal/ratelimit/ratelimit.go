// Package ratelimit provides a keyed rate limiter using the token bucket
// algorithm. The API keys it by client IP, so idle keys are evicted in the
// background to keep memory bounded.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a key may go unused before it is evicted.
const DefaultIdleTTL = 10 * time.Minute

// Option configures a KeyedRateLimiter.
type Option func(*KeyedRateLimiter)

// WithIdleTTL overrides how long unused keys are kept.
func WithIdleTTL(d time.Duration) Option {
	return func(krl *KeyedRateLimiter) {
		krl.idleTTL = d
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed rate limiter allowing rps requests per second with the
// given burst. Call Stop to end background eviction.
func New(rps float64, burst int, opts ...Option) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  DefaultIdleTTL,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(krl)
	}

	go krl.cleanup()

	return krl
}

// PerMinute creates a limiter allowing n requests per minute.
func PerMinute(n, burst int, opts ...Option) *KeyedRateLimiter {
	return New(float64(n)/time.Minute.Seconds(), burst, opts...)
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Reserve reports whether a request for key is allowed and, if not, how long
// the caller should wait before retrying.
func (krl *KeyedRateLimiter) Reserve(key string) (bool, time.Duration) {
	r := krl.getLimiter(key).Reserve()
	if !r.OK() {
		return false, 0
	}
	delay := r.Delay()
	if delay == 0 {
		return true, 0
	}
	r.Cancel()
	return false, delay
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

// getLimiter returns the limiter for a key, creating one if needed, and marks
// the key as used.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	e, ok := krl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = e
	}
	e.lastSeen = krl.now()
	return e.limiter
}

// evict drops keys unused for longer than the idle TTL.
func (krl *KeyedRateLimiter) evict() int {
	cutoff := krl.now().Add(-krl.idleTTL)

	krl.mu.Lock()
	defer krl.mu.Unlock()

	evicted := 0
	for key, e := range krl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(krl.limiters, key)
			evicted++
		}
	}
	return evicted
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(max(krl.idleTTL/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			krl.evict()
		case <-krl.done:
			return
		}
	}
}
