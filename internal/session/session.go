// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

// Package session holds group passwords in memory for a bounded time window.
// At most one live secret exists per scope; destruction is triggered by an
// armed timer, an explicit clear, an idle signal, or application shutdown.
//
// Secret wiping here is best-effort: Go's garbage collector may have copied
// the bytes, and the password string the secret came from cannot be scrubbed
// at all. Overwriting the backing buffer shrinks the window a secret is
// recoverable from a memory dump; it does not close it.
package session

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/sora-grayscale/spliit-sub000/internal/logger"
)

// DefaultTimeout is the session lifetime when the config does not override it.
const DefaultTimeout = 30 * time.Minute

type entry struct {
	secret    []byte
	createdAt time.Time
	expiresAt time.Time
	timer     *time.Timer
}

// Store is the in-memory secret session store. Safe for concurrent use; all
// map mutations happen under the store mutex.
type Store struct {
	timeout time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	entries map[string]*entry

	// now is swapped out in tests.
	now func() time.Time
}

// New constructs a Store with the given session timeout. A non-positive
// timeout falls back to DefaultTimeout.
func New(timeout time.Duration, log *logger.Logger) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		timeout: timeout,
		log:     log,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Set stores secret for scope, replacing (and wiping) any previous secret
// for that scope, and arms the expiry timer. The secret is copied; the
// caller's buffer is not retained.
func (s *Store) Set(scope string, secret []byte) {
	owned := make([]byte, len(secret))
	copy(owned, secret)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyLocked(scope)

	now := s.now()
	e := &entry{
		secret:    owned,
		createdAt: now,
		expiresAt: now.Add(s.timeout),
	}
	e.timer = time.AfterFunc(s.timeout, func() { s.expire(scope, e) })
	s.entries[scope] = e
}

// Get returns a copy of the live secret for scope. Expired entries are
// destroyed lazily on read. Returning a copy keeps an in-flight caller safe
// when destruction races with the read.
func (s *Store) Get(scope string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[scope]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		s.destroyLocked(scope)
		return nil, false
	}

	out := make([]byte, len(e.secret))
	copy(out, e.secret)
	return out, true
}

// Has reports whether a live (non-expired) secret exists for scope without
// touching the secret itself.
func (s *Store) Has(scope string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[scope]
	if !ok {
		return false
	}
	if !s.now().Before(e.expiresAt) {
		s.destroyLocked(scope)
		return false
	}
	return true
}

// Clear destroys the secret for scope immediately.
func (s *Store) Clear(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyLocked(scope)
}

// MarkIdle is the visibility/idle trigger: the scope's secret is destroyed
// because the user walked away.
func (s *Store) MarkIdle(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyLocked(scope) {
		s.log.Debug().Str("scope", scope).Msg("secret destroyed on idle signal")
	}
}

// ClearAll destroys every secret. Wired to the application "going away"
// signal in addition to explicit clear-all actions.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for scope := range s.entries {
		s.destroyLocked(scope)
	}
}

// expire is the timer callback. It destroys the entry only if it is still
// the current one for the scope; a Set that replaced it in the meantime
// already wiped it.
func (s *Store) expire(scope string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.entries[scope]; ok && current == e {
		s.destroyLocked(scope)
		s.log.Debug().Str("scope", scope).Msg("secret expired")
	}
}

// destroyLocked wipes and removes the scope's entry. Caller holds s.mu.
func (s *Store) destroyLocked(scope string) bool {
	e, ok := s.entries[scope]
	if !ok {
		return false
	}

	if e.timer != nil {
		e.timer.Stop()
	}
	wipe(e.secret)
	e.secret = nil
	delete(s.entries, scope)
	return true
}

// wipe overwrites buf with several patterns and finally fresh random bytes
// before the reference is dropped.
func wipe(buf []byte) {
	for _, pattern := range []byte{0x00, 0xFF, 0xAA} {
		for i := range buf {
			buf[i] = pattern
		}
	}
	// Ignore a failed random read; the buffer already holds 0xAA.
	_, _ = rand.Read(buf)
}
