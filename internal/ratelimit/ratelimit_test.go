package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name      string
		perMinute int
		burst     int
		calls     int
		wantPass  int
	}{
		{name: "default config allows its burst", perMinute: 120, burst: 30, calls: 30, wantPass: 30},
		{name: "requests past the burst are refused", perMinute: 120, burst: 30, calls: 40, wantPass: 30},
		{name: "burst of one", perMinute: 60, burst: 1, calls: 3, wantPass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := PerMinute(tt.perMinute, tt.burst)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow("203.0.113.7") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := PerMinute(120, 2)
	defer rl.Stop()

	for range 2 {
		require.True(t, rl.Allow("203.0.113.7"))
	}
	assert.False(t, rl.Allow("203.0.113.7"), "first client should be exhausted")

	assert.True(t, rl.Allow("198.51.100.20"), "second client keeps its own bucket")
	assert.True(t, rl.Allow("2001:db8::1"))
	assert.Equal(t, 3, rl.Len())
}

func TestKeyedRateLimiter_RetryAfterFollowsRate(t *testing.T) {
	// 120 per minute refills one token every 500ms.
	rl := PerMinute(120, 1)
	defer rl.Stop()

	ok, _ := rl.Reserve("203.0.113.7")
	require.True(t, ok)

	ok, delay := rl.Reserve("203.0.113.7")
	require.False(t, ok)
	assert.Greater(t, delay, 400*time.Millisecond)
	assert.LessOrEqual(t, delay, 500*time.Millisecond)
}

func TestKeyedRateLimiter_PerMinute(t *testing.T) {
	rl := PerMinute(60, 2)
	defer rl.Stop()

	require.True(t, rl.Allow("203.0.113.7"))
	require.True(t, rl.Allow("203.0.113.7"))
	assert.False(t, rl.Allow("203.0.113.7"), "third request should be limited at 1 rps")
}

func TestKeyedRateLimiter_Reserve(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	ok, delay := rl.Reserve("203.0.113.7")
	require.True(t, ok)
	require.Zero(t, delay)

	ok, delay = rl.Reserve("203.0.113.7")
	require.False(t, ok)
	assert.Positive(t, delay)
	assert.LessOrEqual(t, delay, time.Second)

	// A refused reservation gives its token back, so the wait does not grow.
	_, again := rl.Reserve("203.0.113.7")
	assert.LessOrEqual(t, again, time.Second)
}

func TestKeyedRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := New(1, 1, WithIdleTTL(time.Minute))
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("203.0.113.7")
	now = now.Add(45 * time.Second)
	rl.Allow("198.51.100.20")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, rl.evict())
	assert.Equal(t, 1, rl.Len())

	// An evicted client starts over with a full bucket.
	assert.True(t, rl.Allow("203.0.113.7"))
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := New(1, 1)
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}
