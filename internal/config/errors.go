// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidCryptoConfigs indicates invalid key-derivation settings
	// (for example, an iteration count outside the supported range).
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidSessionConfigs indicates invalid session settings
	// (for example, a non-positive timeout).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidRateLimitConfigs indicates an invalid throttling profile
	// (for example, zero attempts or a non-positive window).
	ErrInvalidRateLimitConfigs = errors.New("invalid rate limit configuration")
	// ErrInvalidCacheConfigs indicates invalid decryption cache settings
	// (for example, zero capacity or TTL).
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidServerConfigs indicates invalid HTTP server settings
	// (for example, a missing listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a zero sweep interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
