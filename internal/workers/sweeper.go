// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sora-grayscale/spliit-sub000/internal/logger"
)

const defaultSweepInterval = time.Minute

type sweeper struct {
	name     string
	target   Sweepable
	interval time.Duration

	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a worker that calls target.Sweep every interval. A zero
// or negative interval falls back to one minute. The worker is idle until
// Start is called.
func NewSweeper(name string, target Sweepable, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &sweeper{
		name:     name,
		target:   target,
		interval: interval,
		logger:   log,
	}
}

// Start implements Worker. It stops any previously running sweep loop, then
// launches a goroutine that sweeps every interval until ctx is cancelled or
// Stop is called.
func (s *sweeper) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				if n := s.target.Sweep(); n > 0 {
					s.logger.Debug().Str("worker", s.name).Int("swept", n).Msg("sweep pass complete")
				}
			}
		}
	}()
}

// Stop implements Worker. It cancels the sweep loop and blocks until the
// goroutine has exited. Safe to call when the worker is not running.
func (s *sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
