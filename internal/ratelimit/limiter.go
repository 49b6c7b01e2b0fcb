// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

// Package ratelimit throttles repeated password-verification and decryption
// attempts per (scope, identifier) with exponential backoff. Verification
// uses a tight profile to deter password guessing; decryption uses a loose
// one so legitimate UI re-render storms are not penalized like brute force.
package ratelimit

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sora-grayscale/spliit-sub000/internal/logger"
)

// Profile is one limiter configuration.
type Profile struct {
	// MaxAttempts within Window before the key transitions to Blocked.
	MaxAttempts int

	// Window is the base counting window.
	Window time.Duration

	// BackoffCap caps the block-window multiplier (the multiplier doubles
	// on every transition to Blocked).
	BackoffCap int

	// SlowdownThreshold is the fraction of MaxAttempts past which attempts
	// get a small randomized delay, a mitigation against timing-based
	// enumeration rather than a hard throttle.
	SlowdownThreshold float64

	// SlowdownMaxDelay bounds that randomized delay.
	SlowdownMaxDelay time.Duration
}

// VerifyProfile is the default for password-verification attempts.
func VerifyProfile() Profile {
	return Profile{
		MaxAttempts:       10,
		Window:            5 * time.Minute,
		BackoffCap:        16,
		SlowdownThreshold: 0.8,
		SlowdownMaxDelay:  150 * time.Millisecond,
	}
}

// DecryptProfile is the default for decryption attempts.
func DecryptProfile() Profile {
	return Profile{
		MaxAttempts:       50,
		Window:            time.Minute,
		BackoffCap:        16,
		SlowdownThreshold: 0.8,
		SlowdownMaxDelay:  100 * time.Millisecond,
	}
}

// record tracks one (scope, identifier) key. States: Counting (blocked ==
// false) and Blocked; Idle is the absence of a record.
type record struct {
	count       int
	windowStart time.Time
	lastAttempt time.Time
	backoff     int
	blocked     bool
}

// Limiter is a per-operation rate limiter. Construct one instance per
// operation (verify, decrypt) and share it by reference; it is safe for
// concurrent use.
type Limiter struct {
	profile Profile
	log     *logger.Logger

	mu      sync.Mutex
	records map[string]*record

	// now and sleep are swapped out in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New constructs a Limiter for the given profile.
func New(profile Profile, log *logger.Logger) *Limiter {
	return &Limiter{
		profile: profile,
		log:     log,
		records: make(map[string]*record),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

func key(scope, identifier string) string {
	return fmt.Sprintf("%s:%s", scope, identifier)
}

// effectiveWindow is the base window scaled by the key's backoff multiplier.
func (l *Limiter) effectiveWindow(rec *record) time.Duration {
	return l.profile.Window * time.Duration(rec.backoff)
}

// Attempt registers one attempt for (scope, identifier). It returns nil when
// the attempt may proceed and a *BlockedError when the key is blocked. The
// read-check-then-write sequence runs entirely under the limiter mutex so
// concurrent abusive attempts are never undercounted.
func (l *Limiter) Attempt(scope, identifier string) error {
	var slowdown time.Duration

	l.mu.Lock()
	err := l.attemptLocked(key(scope, identifier), &slowdown)
	l.mu.Unlock()

	// The slowdown sleep happens outside the mutex so other keys are not
	// held up behind it.
	if err == nil && slowdown > 0 {
		l.sleep(slowdown)
	}

	return err
}

func (l *Limiter) attemptLocked(k string, slowdown *time.Duration) error {
	now := l.now()

	rec, ok := l.records[k]
	if !ok {
		l.records[k] = &record{count: 1, windowStart: now, lastAttempt: now, backoff: 1}
		return nil
	}

	if rec.blocked {
		blockedFor := now.Sub(rec.lastAttempt)
		if blockedFor <= l.effectiveWindow(rec) {
			// Hammering a blocked key keeps pushing lastAttempt forward,
			// so the effective block extends under sustained abuse.
			retryAfter := l.effectiveWindow(rec) - blockedFor
			rec.lastAttempt = now
			return &BlockedError{RetryAfter: retryAfter}
		}
		// Lazy Blocked -> Idle -> Counting transition. The grown backoff
		// multiplier survives until Reset.
		rec.blocked = false
		rec.count = 1
		rec.windowStart = now
		rec.lastAttempt = now
		return nil
	}

	if now.Sub(rec.windowStart) > l.profile.Window {
		rec.count = 1
		rec.windowStart = now
		rec.lastAttempt = now
		return nil
	}

	rec.count++
	rec.lastAttempt = now

	if rec.count >= l.profile.MaxAttempts {
		rec.blocked = true
		rec.backoff = min(rec.backoff*2, l.profile.BackoffCap)
		l.log.Debug().Str("key", k).Int("backoff", rec.backoff).Msg("rate limit key blocked")
		return nil
	}

	if l.profile.SlowdownMaxDelay > 0 && l.profile.SlowdownThreshold > 0 &&
		float64(rec.count) >= l.profile.SlowdownThreshold*float64(l.profile.MaxAttempts) {
		*slowdown = l.slowdownDelay()
	}

	return nil
}

// slowdownDelay picks a randomized delay in (SlowdownMaxDelay/4, SlowdownMaxDelay].
func (l *Limiter) slowdownDelay() time.Duration {
	base := l.profile.SlowdownMaxDelay / 4
	return base + rand.N(l.profile.SlowdownMaxDelay-base)
}

// IsBlocked reports whether (scope, identifier) is currently blocked,
// lazily transitioning expired blocks back to Idle. It does not count as an
// attempt.
func (l *Limiter) IsBlocked(scope, identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(scope, identifier)
	rec, ok := l.records[k]
	if !ok || !rec.blocked {
		return false
	}

	if l.now().Sub(rec.lastAttempt) > l.effectiveWindow(rec) {
		rec.blocked = false
		rec.count = 0
		return false
	}

	return true
}

// Reset clears all state for (scope, identifier). Called on proven-correct
// password use.
func (l *Limiter) Reset(scope, identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.records, key(scope, identifier))
}

// Sweep evicts records idle for more than twice their effective window.
// Run periodically by the background sweep worker to bound memory; the
// idle check is the single source of truth, so a sweep can never evict a
// record the foreground path is inside its window with.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for k, rec := range l.records {
		if now.Sub(rec.lastAttempt) > 2*l.effectiveWindow(rec) {
			delete(l.records, k)
			evicted++
		}
	}

	if evicted > 0 {
		l.log.Debug().Int("evicted", evicted).Msg("rate limit sweep")
	}

	return evicted
}
