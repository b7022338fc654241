package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// A different client gets its own bucket.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	ttl := time.Minute
	rl := NewRateLimiter(1, 1, ttl)

	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))

	// Age the bucket past the ttl and force a sweep on the next lookup.
	rl.buckets["10.0.0.1"].lastSeen = time.Now().Add(-2 * ttl)
	rl.lastSweep = time.Now().Add(-2 * ttl)

	// The idle bucket was dropped, so the client starts with a fresh burst.
	assert.True(t, rl.Allow("10.0.0.1"))
}
