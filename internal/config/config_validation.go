// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package config

import (
	"github.com/sora-grayscale/spliit-sub000/internal/crypto"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. An iteration count
// outside the supported range is rejected here rather than at first use,
// so a misconfigured deployment fails fast instead of producing keys it
// can never verify again.
//
// Returns nil if the configuration is valid, or a sentinel error from
// errors.go otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Crypto.Iterations < crypto.MinIterations || cfg.Crypto.Iterations > crypto.MaxIterations {
		return ErrInvalidCryptoConfigs
	}

	if cfg.Crypto.MinOperationTime < 0 {
		return ErrInvalidCryptoConfigs
	}

	if cfg.Session.Timeout <= 0 {
		return ErrInvalidSessionConfigs
	}

	if err := cfg.RateLimit.Verify.validate(); err != nil {
		return err
	}
	if err := cfg.RateLimit.Decrypt.validate(); err != nil {
		return err
	}

	if cfg.Cache.Capacity <= 0 || cfg.Cache.TTL <= 0 {
		return ErrInvalidCacheConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.SweepInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (l Limiter) validate() error {
	if l.MaxAttempts <= 0 || l.Window <= 0 || l.BackoffCap < 1 {
		return ErrInvalidRateLimitConfigs
	}

	return nil
}
