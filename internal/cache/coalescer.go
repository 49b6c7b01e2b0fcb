// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

// Package cache holds decrypted expense details and deduplicates concurrent
// identical decryption requests, so several UI observers of the same
// ciphertext never each pay the KDF cost or each consume a rate-limit slot.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sora-grayscale/spliit-sub000/internal/crypto"
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/internal/ratelimit"
	"github.com/sora-grayscale/spliit-sub000/models"
)

// DecryptFunc is the underlying rate-limited decrypt operation the coalescer
// guards. Exactly one invocation runs per unique ciphertext at a time.
type DecryptFunc func(ctx context.Context, scope string, payload crypto.EncryptedPayload) (models.ExpenseDetails, error)

// Options tunes a Coalescer. Zero values pick the defaults.
type Options struct {
	// Capacity bounds the number of cached entries (default 200).
	Capacity int

	// TTL is how long a cached entry stays fresh (default 5 minutes).
	TTL time.Duration

	// SweepChance is the probability that a successful insert triggers an
	// expired-entry sweep (default 0.1).
	SweepChance float64

	// Fallback is returned in place of an error when decryption fails
	// (default a placeholder title).
	Fallback models.ExpenseDetails
}

const (
	defaultCapacity    = 200
	defaultTTL         = 5 * time.Minute
	defaultSweepChance = 0.1
	// DefaultFallbackTitle is the placeholder shown when a value cannot be
	// decrypted and no custom fallback is configured.
	DefaultFallbackTitle = "Encrypted expense"
)

type entry struct {
	scope      string
	details    models.ExpenseDetails
	insertedAt time.Time
}

// call is the shared in-flight handle. Waiters block on done; result and
// err are written exactly once, before done is closed.
type call struct {
	done   chan struct{}
	result models.DecryptedField
	err    error
}

// Coalescer is safe for concurrent use. All map mutations happen under mu;
// the decrypt itself runs outside it.
type Coalescer struct {
	decrypt  DecryptFunc
	capacity int
	ttl      time.Duration
	chance   float64
	fallback models.ExpenseDetails
	log      *logger.Logger

	mu       sync.Mutex
	entries  map[string]*entry
	inflight map[string]*call

	// now and randFloat are swapped out in tests.
	now       func() time.Time
	randFloat func() float64
}

// New constructs a Coalescer around decrypt.
func New(decrypt DecryptFunc, opts Options, log *logger.Logger) *Coalescer {
	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.SweepChance <= 0 {
		opts.SweepChance = defaultSweepChance
	}
	if opts.Fallback.Title == "" {
		opts.Fallback = models.ExpenseDetails{Title: DefaultFallbackTitle}
	}

	return &Coalescer{
		decrypt:   decrypt,
		capacity:  opts.Capacity,
		ttl:       opts.TTL,
		chance:    opts.SweepChance,
		fallback:  opts.Fallback,
		log:       log,
		entries:   make(map[string]*entry),
		inflight:  make(map[string]*call),
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// cacheKey hashes (scope, nonce, ciphertext) with SHA-256. A cryptographic
// hash, never raw substrings: cache keys must not leak partial preimages of
// ciphertext across entries.
func cacheKey(scope string, payload crypto.EncryptedPayload) string {
	h := sha256.New()
	h.Write([]byte(scope))
	h.Write(payload.Nonce)
	h.Write(payload.Ciphertext)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the decrypted details for payload: from cache when fresh, from
// an in-flight request when one exists, otherwise by running the single
// underlying decrypt. Decryption failures come back as the fallback value,
// not an error; rate-limit errors propagate so the UI can show a retry-after.
func (c *Coalescer) Get(ctx context.Context, scope string, payload crypto.EncryptedPayload) (models.DecryptedField, error) {
	k := cacheKey(scope, payload)

	c.mu.Lock()

	if e, ok := c.entries[k]; ok {
		if c.now().Sub(e.insertedAt) < c.ttl {
			details := e.details
			c.mu.Unlock()
			return models.DecryptedField{Details: details}, nil
		}
		delete(c.entries, k)
	}

	if cl, ok := c.inflight[k]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.result, cl.err
		case <-ctx.Done():
			return models.DecryptedField{Details: c.fallback, Fallback: true}, ctx.Err()
		}
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[k] = cl
	c.mu.Unlock()

	details, err := c.decrypt(ctx, scope, payload)

	c.mu.Lock()
	// The handle leaves the in-flight map exactly once, under the lock,
	// after the result fields are final.
	delete(c.inflight, k)

	switch {
	case err == nil:
		cl.result = models.DecryptedField{Details: details}
		c.insertLocked(k, scope, details)
	case errors.Is(err, ratelimit.ErrRateLimitExceeded):
		cl.err = err
	case errors.Is(err, crypto.ErrInvalidDecryptedStructure):
		c.log.Warn().Str("scope", scope).Msg("decrypted payload failed structure validation")
		cl.result = models.DecryptedField{Details: c.fallback, Fallback: true}
	default:
		c.log.Debug().Str("scope", scope).Msg("decryption failed, serving fallback")
		cl.result = models.DecryptedField{Details: c.fallback, Fallback: true}
	}
	c.mu.Unlock()

	close(cl.done)
	return cl.result, cl.err
}

func (c *Coalescer) insertLocked(k, scope string, details models.ExpenseDetails) {
	if len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}

	c.entries[k] = &entry{scope: scope, details: details, insertedAt: c.now()}

	if c.randFloat() < c.chance {
		c.sweepLocked()
	}
}

func (c *Coalescer) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.insertedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.insertedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *Coalescer) sweepLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Sweep removes every expired entry and reports how many were dropped.
// Inserts already sweep probabilistically; this is the deterministic variant
// for the background worker.
func (c *Coalescer) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.entries)
	c.sweepLocked()
	return before - len(c.entries)
}

// Invalidate purges all cached entries for a scope. Called on logout and on
// password change.
func (c *Coalescer) Invalidate(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.scope == scope {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll clears the whole cache.
func (c *Coalescer) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// Len reports the current number of cached entries.
func (c *Coalescer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
