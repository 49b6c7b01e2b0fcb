package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimitExceeded is the sentinel for a blocked attempt. Callers match
// it with errors.Is; the concrete *BlockedError carries the retry-after
// duration for the UI.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// BlockedError reports how long the caller has to wait before the next
// attempt can succeed. It deliberately says nothing about why the limit was
// hit beyond the coarse category.
type BlockedError struct {
	RetryAfter time.Duration
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *BlockedError) Unwrap() error {
	return ErrRateLimitExceeded
}
