package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter := New(WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("user-1", 3, time.Minute), "call %d should be admitted", i+1)
	}
	assert.False(t, limiter.Allow("user-1", 3, time.Minute), "4th call must be rejected")

	// past the window the budget is fresh again
	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow("user-1", 3, time.Minute))
}

func TestRejectionDoesNotExtendWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter := New(WithClock(func() time.Time { return now }))

	assert.True(t, limiter.Allow("k", 1, time.Minute))

	// hammering while rejected must not push the reset point forward
	for i := 0; i < 10; i++ {
		now = now.Add(5 * time.Second)
		limiter.Allow("k", 1, time.Minute)
	}

	now = now.Add(15 * time.Second) // 65s after the single admitted call
	assert.True(t, limiter.Allow("k", 1, time.Minute))
}

func TestKeysAreIndependent(t *testing.T) {
	limiter := New()

	assert.True(t, limiter.Allow("user-a", 1, time.Minute))
	assert.False(t, limiter.Allow("user-a", 1, time.Minute))
	assert.True(t, limiter.Allow("user-b", 1, time.Minute))
}

func TestPrune(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter := New(WithClock(func() time.Time { return now }))

	limiter.Allow("stale", 5, time.Minute)
	now = now.Add(3 * time.Hour)
	limiter.Allow("fresh", 5, time.Minute)

	limiter.Prune(2 * time.Hour)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.windows, "stale")
	assert.Contains(t, limiter.windows, "fresh")
}
