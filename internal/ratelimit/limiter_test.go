package ratelimit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sora-grayscale/spliit-sub000/internal/logger"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(p Profile) (*Limiter, *fakeClock) {
	l := New(p, logger.Nop())
	clock := newFakeClock()
	l.now = clock.Now
	l.sleep = func(time.Duration) {} // no real sleeping in tests
	return l, clock
}

func testProfile() Profile {
	return Profile{
		MaxAttempts:       5,
		Window:            time.Minute,
		BackoffCap:        16,
		SlowdownThreshold: 0.8,
		SlowdownMaxDelay:  50 * time.Millisecond,
	}
}

func TestLimiter_BlocksAfterMaxAttempts(t *testing.T) {
	l, _ := newTestLimiter(testProfile())

	// Attempts up to and including MaxAttempts proceed; the key is blocked
	// for everything after.
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"), "attempt %d", i+1)
	}

	assert.True(t, l.IsBlocked("group-1", "client-a"))

	err := l.Attempt("group-1", "client-a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Greater(t, blocked.RetryAfter, time.Duration(0))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(testProfile())

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"))
	}

	assert.True(t, l.IsBlocked("group-1", "client-a"))
	assert.False(t, l.IsBlocked("group-1", "client-b"))
	assert.False(t, l.IsBlocked("group-2", "client-a"))
	assert.NoError(t, l.Attempt("group-2", "client-a"))
}

func TestLimiter_ResetUnblocksImmediately(t *testing.T) {
	l, _ := newTestLimiter(testProfile())

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"))
	}
	require.True(t, l.IsBlocked("group-1", "client-a"))

	l.Reset("group-1", "client-a")

	assert.False(t, l.IsBlocked("group-1", "client-a"))
	assert.NoError(t, l.Attempt("group-1", "client-a"))
}

func TestLimiter_WindowExpiryResetsCount(t *testing.T) {
	l, clock := newTestLimiter(testProfile())

	for i := 0; i < 4; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"))
	}

	// Past the window the count starts over, so another full run of
	// attempts is allowed.
	clock.Advance(61 * time.Second)

	for i := 0; i < 4; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"))
	}
	assert.False(t, l.IsBlocked("group-1", "client-a"))
}

func TestLimiter_BlockExpiresAfterBackoffWindow(t *testing.T) {
	l, clock := newTestLimiter(testProfile())

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"))
	}
	require.True(t, l.IsBlocked("group-1", "client-a"))

	// First block doubles the multiplier to 2, so the effective window is
	// 2 x 1min. Still blocked inside it.
	clock.Advance(90 * time.Second)
	assert.True(t, l.IsBlocked("group-1", "client-a"))

	clock.Advance(60 * time.Second)
	assert.False(t, l.IsBlocked("group-1", "client-a"))
	assert.NoError(t, l.Attempt("group-1", "client-a"))
}

func TestLimiter_BackoffGrowsAndCaps(t *testing.T) {
	p := testProfile()
	p.BackoffCap = 4
	l, clock := newTestLimiter(p)

	blockOnce := func() {
		for {
			if err := l.Attempt("group-1", "client-a"); err != nil {
				return
			}
		}
	}

	// Repeated abuse doubles the multiplier each block, capped at 4.
	blockOnce()
	clock.Advance(time.Hour)
	blockOnce()
	clock.Advance(time.Hour)
	blockOnce()

	l.mu.Lock()
	rec := l.records[key("group-1", "client-a")]
	backoff := rec.backoff
	l.mu.Unlock()

	assert.Equal(t, 4, backoff)
}

func TestLimiter_HammeringExtendsBlock(t *testing.T) {
	l, clock := newTestLimiter(testProfile())

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"))
	}

	// Keep hammering just inside the block window; the block never expires.
	for i := 0; i < 5; i++ {
		clock.Advance(time.Minute)
		assert.ErrorIs(t, l.Attempt("group-1", "client-a"), ErrRateLimitExceeded)
	}
	assert.True(t, l.IsBlocked("group-1", "client-a"))
}

func TestLimiter_SlowdownNearLimit(t *testing.T) {
	l, _ := newTestLimiter(testProfile())

	var slept []time.Duration
	l.sleep = func(d time.Duration) { slept = append(slept, d) }

	// Threshold is 0.8 x 5 = 4: the 4th attempt (and later non-blocking
	// ones) gets a randomized delay.
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Attempt("group-1", "client-a"))
	}

	require.NotEmpty(t, slept)
	for _, d := range slept {
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 50*time.Millisecond)
	}
}

func TestLimiter_SweepEvictsIdleRecords(t *testing.T) {
	l, clock := newTestLimiter(testProfile())

	require.NoError(t, l.Attempt("group-1", "client-a"))
	require.NoError(t, l.Attempt("group-2", "client-a"))

	// Not yet idle for 2x the window: nothing to evict.
	clock.Advance(90 * time.Second)
	assert.Equal(t, 0, l.Sweep())

	clock.Advance(time.Minute)
	assert.Equal(t, 2, l.Sweep())

	l.mu.Lock()
	remaining := len(l.records)
	l.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestLimiter_ConcurrentAttemptsAreNotUndercounted(t *testing.T) {
	p := testProfile()
	p.MaxAttempts = 50
	l, _ := newTestLimiter(p)

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Attempt("group-1", "client-a")
		}()
	}
	wg.Wait()

	// 60 concurrent attempts against a limit of 50 must leave the key
	// blocked: no lost updates.
	assert.True(t, l.IsBlocked("group-1", "client-a"))
}

func TestBlockedError_UnwrapsToSentinel(t *testing.T) {
	err := &BlockedError{RetryAfter: 30 * time.Second}
	assert.True(t, errors.Is(err, ErrRateLimitExceeded))
	assert.Contains(t, err.Error(), "retry in")
}
