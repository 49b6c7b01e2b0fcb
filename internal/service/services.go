// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package service

import (
	"github.com/sora-grayscale/spliit-sub000/internal/cache"
	"github.com/sora-grayscale/spliit-sub000/internal/config"
	"github.com/sora-grayscale/spliit-sub000/internal/localstore"
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/internal/ratelimit"
	"github.com/sora-grayscale/spliit-sub000/internal/session"
	"github.com/sora-grayscale/spliit-sub000/internal/store"
)

// Services bundles the constructed service layer plus the stateful
// components the rest of the process needs direct access to: the session
// store for shutdown wiping and the limiters and cache for the background
// sweep workers.
type Services struct {
	Password PasswordService

	Sessions       *session.Store
	VerifyLimiter  *ratelimit.Limiter
	DecryptLimiter *ratelimit.Limiter
	Cache          *cache.Coalescer
}

func NewServices(repo store.GroupKeyStore, remember *localstore.Store, cfg *config.StructuredConfig, log *logger.Logger) *Services {
	sessions := session.New(cfg.Session.Timeout, log)
	verifyLimiter := ratelimit.New(limiterProfile(cfg.RateLimit.Verify, ratelimit.VerifyProfile()), log)
	decryptLimiter := ratelimit.New(limiterProfile(cfg.RateLimit.Decrypt, ratelimit.DecryptProfile()), log)

	cacheOpts := cache.Options{
		Capacity: cfg.Cache.Capacity,
		TTL:      cfg.Cache.TTL,
	}

	password := NewPasswordService(repo, sessions, verifyLimiter, decryptLimiter, cacheOpts, remember, cfg.Crypto, log)

	return &Services{
		Password:       password,
		Sessions:       sessions,
		VerifyLimiter:  verifyLimiter,
		DecryptLimiter: decryptLimiter,
		Cache:          password.(*passwordService).cache,
	}
}

// limiterProfile maps a config section onto a limiter profile, keeping the
// base profile's slowdown tuning which is not exposed through configuration.
func limiterProfile(cfg config.Limiter, base ratelimit.Profile) ratelimit.Profile {
	if cfg.MaxAttempts != 0 {
		base.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.Window != 0 {
		base.Window = cfg.Window
	}
	if cfg.BackoffCap != 0 {
		base.BackoffCap = cfg.BackoffCap
	}
	return base
}
