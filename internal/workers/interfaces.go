// Package workers provides the background maintenance workers of the
// application and a small aggregate for starting and stopping them together.
//
// The only worker kind today is the Sweeper, which periodically evicts
// expired rate-limit records and cached plaintexts so idle state does not
// accumulate between requests.
package workers

import "context"

// Worker is a long-running background task with an explicit lifecycle.
// Start must not block; Stop blocks until the worker has fully exited and
// is safe to call more than once.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Sweepable is anything that can evict its own expired state. Both the rate
// limiter and the decryption cache satisfy it.
type Sweepable interface {
	// Sweep removes expired entries and reports how many were dropped.
	Sweep() int
}
