// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sora-grayscale/spliit-sub000/internal/cache"
	"github.com/sora-grayscale/spliit-sub000/internal/config"
	"github.com/sora-grayscale/spliit-sub000/internal/crypto"
	"github.com/sora-grayscale/spliit-sub000/internal/localstore"
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/internal/ratelimit"
	"github.com/sora-grayscale/spliit-sub000/internal/session"
	"github.com/sora-grayscale/spliit-sub000/internal/store"
	"github.com/sora-grayscale/spliit-sub000/internal/validators"
	"github.com/sora-grayscale/spliit-sub000/models"
)

// Rate-limit scopes. Verification and decryption are throttled independently
// because they have very different legitimate call rates.
const (
	scopeVerify  = "verify"
	scopeDecrypt = "decrypt"
)

type passwordService struct {
	repo      store.GroupKeyStore
	keys      crypto.KeyService
	cipher    crypto.CipherService
	verifier  crypto.VerifierService
	validator validators.Validator

	sessions       *session.Store
	verifyLimiter  *ratelimit.Limiter
	decryptLimiter *ratelimit.Limiter
	cache          *cache.Coalescer

	// remember, when non-nil, keeps verified passwords at rest so expired
	// key sessions can be reopened without retyping.
	remember *localstore.Store

	minOpTime time.Duration

	logger *logger.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPasswordService wires the crypto core, session store, limiters, and
// decryption cache into one PasswordService. The cache's decrypt function is
// bound here so every cache miss resolves against the group's current session
// key.
func NewPasswordService(
	repo store.GroupKeyStore,
	sessions *session.Store,
	verifyLimiter, decryptLimiter *ratelimit.Limiter,
	cacheOpts cache.Options,
	remember *localstore.Store,
	cfg config.Crypto,
	log *logger.Logger,
) PasswordService {
	keys := crypto.NewKeyService()
	if cfg.Iterations != 0 {
		keys = crypto.NewKeyServiceWithIterations(cfg.Iterations)
	}
	cipher := crypto.NewCipherService()

	s := &passwordService{
		repo:           repo,
		keys:           keys,
		cipher:         cipher,
		verifier:       crypto.NewVerifierService(keys, cipher),
		validator:      validators.NewExpenseDetailsValidator(),
		sessions:       sessions,
		verifyLimiter:  verifyLimiter,
		decryptLimiter: decryptLimiter,
		remember:       remember,
		minOpTime:      cfg.MinOperationTime,
		logger:         log,
		now:            time.Now,
		sleep:          time.Sleep,
	}

	s.cache = cache.New(s.decryptForCache, cacheOpts, log)

	return s
}

// decryptForCache is the single underlying decrypt the coalescer runs on a
// cache miss. The decrypt limiter is charged here, per real decryption, so
// cache hits and coalesced waiters stay free.
func (s *passwordService) decryptForCache(ctx context.Context, scope string, payload crypto.EncryptedPayload) (models.ExpenseDetails, error) {
	if err := s.decryptLimiter.Attempt(scopeDecrypt, scope); err != nil {
		return models.ExpenseDetails{}, err
	}

	key, ok := s.sessionKey(ctx, scope)
	if !ok {
		return models.ExpenseDetails{}, ErrSessionExpired
	}

	return s.cipher.DecryptDetails(payload, key)
}

func (s *passwordService) SetGroupPassword(ctx context.Context, groupID, password string) error {
	if groupID == "" || password == "" {
		return ErrInvalidDataProvided
	}

	encCtx, err := s.keys.GenerateContext()
	if err != nil {
		return fmt.Errorf("generating encryption context: %w", err)
	}

	verification, err := s.verifier.CreateTest(password, encCtx)
	if err != nil {
		return fmt.Errorf("creating verification blob: %w", err)
	}

	rec := models.GroupKeyRecord{
		GroupID:      groupID,
		Context:      encCtx,
		Verification: models.VerificationBlob(verification.EncodeField()),
		CreatedAt:    s.now(),
	}
	if err := s.repo.SaveRecord(ctx, rec); err != nil {
		return fmt.Errorf("saving group key record: %w", err)
	}

	key, err := s.keys.DeriveKey(password, encCtx)
	if err != nil {
		return fmt.Errorf("deriving group key: %w", err)
	}
	s.sessions.Set(groupID, key)
	s.rememberPassword(groupID, password)

	// Everything cached for the group was sealed under the old key.
	s.cache.Invalidate(groupID)
	s.verifyLimiter.Reset(scopeVerify, groupID)

	s.logger.Info().Str("group", groupID).Int("iterations", encCtx.Iterations).Msg("group password set")
	return nil
}

func (s *passwordService) VerifyGroupPassword(ctx context.Context, groupID, password string) (ok bool, err error) {
	start := s.now()
	defer s.enforceFloor(start)

	if groupID == "" || password == "" {
		return false, ErrInvalidDataProvided
	}

	if err := s.verifyLimiter.Attempt(scopeVerify, groupID); err != nil {
		return false, err
	}

	rec, err := s.repo.GetRecord(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrGroupNotProtected
		}
		return false, fmt.Errorf("loading group key record: %w", err)
	}

	stored, err := crypto.DecodeField(models.EncryptedField(rec.Verification))
	if err != nil {
		return false, fmt.Errorf("decoding verification blob: %w", err)
	}

	ok, err = s.verifier.Verify(password, rec.Context, stored)
	if err != nil {
		return false, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		s.logger.Debug().Str("group", groupID).Msg("password verification failed")
		return false, nil
	}

	key, err := s.keys.DeriveKey(password, rec.Context)
	if err != nil {
		return false, fmt.Errorf("deriving group key: %w", err)
	}
	s.sessions.Set(groupID, key)
	s.rememberPassword(groupID, password)
	s.verifyLimiter.Reset(scopeVerify, groupID)

	s.logger.Info().Str("group", groupID).Msg("group unlocked")
	return true, nil
}

func (s *passwordService) HasActivePassword(groupID string) bool {
	return s.sessions.Has(groupID)
}

func (s *passwordService) IsGroupProtected(ctx context.Context, groupID string) (bool, error) {
	_, err := s.repo.GetRecord(ctx, groupID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("loading group key record: %w", err)
	}
}

func (s *passwordService) ClearGroupPassword(groupID string) {
	s.sessions.Clear(groupID)
	s.cache.Invalidate(groupID)
	s.forgetPassword(groupID)
	s.logger.Debug().Str("group", groupID).Msg("group locked")
}

func (s *passwordService) RemoveGroupProtection(ctx context.Context, groupID string) error {
	if err := s.repo.DeleteRecord(ctx, groupID); err != nil {
		return fmt.Errorf("deleting group key record: %w", err)
	}

	s.sessions.Clear(groupID)
	s.cache.Invalidate(groupID)
	s.forgetPassword(groupID)
	s.verifyLimiter.Reset(scopeVerify, groupID)
	s.decryptLimiter.Reset(scopeDecrypt, groupID)

	s.logger.Info().Str("group", groupID).Msg("group protection removed")
	return nil
}

func (s *passwordService) EncryptField(ctx context.Context, groupID string, details models.ExpenseDetails) (models.EncryptedField, error) {
	if err := s.validator.Validate(ctx, details); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	key, ok := s.sessionKey(ctx, groupID)
	if !ok {
		return "", ErrSessionExpired
	}

	payload, err := s.cipher.EncryptDetails(details, key)
	if err != nil {
		return "", fmt.Errorf("encrypting details: %w", err)
	}

	return payload.EncodeField(), nil
}

func (s *passwordService) DecryptField(ctx context.Context, groupID string, field models.EncryptedField) (models.DecryptedField, error) {
	start := s.now()
	defer s.enforceFloor(start)

	// Values written before the group was protected are stored as plain
	// text; hand them back untouched.
	if !crypto.IsEncryptedField(string(field)) {
		return models.DecryptedField{Details: models.ExpenseDetails{Title: string(field)}}, nil
	}

	if _, ok := s.sessionKey(ctx, groupID); !ok {
		return models.DecryptedField{}, ErrSessionExpired
	}

	payload, err := crypto.DecodeField(field)
	if err != nil {
		s.logger.Debug().Str("group", groupID).Msg("malformed encrypted field")
		return models.DecryptedField{Details: models.ExpenseDetails{Title: cache.DefaultFallbackTitle}, Fallback: true}, nil
	}

	return s.cache.Get(ctx, groupID, payload)
}

func (s *passwordService) SaveExpense(ctx context.Context, groupID, expenseID string, details models.ExpenseDetails) error {
	if groupID == "" || expenseID == "" {
		return ErrInvalidDataProvided
	}

	field, err := s.EncryptField(ctx, groupID, details)
	if err != nil {
		return err
	}

	if err := s.repo.SaveField(ctx, groupID, expenseID, field); err != nil {
		return fmt.Errorf("saving encrypted field: %w", err)
	}

	return nil
}

func (s *passwordService) LoadExpense(ctx context.Context, groupID, expenseID string) (models.DecryptedField, error) {
	field, err := s.repo.GetField(ctx, groupID, expenseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.DecryptedField{}, err
		}
		return models.DecryptedField{}, fmt.Errorf("loading encrypted field: %w", err)
	}

	return s.DecryptField(ctx, groupID, field)
}

// enforceFloor pads the operation out to the configured minimum duration so
// an early failure is not distinguishable from a full KDF run by timing.
func (s *passwordService) enforceFloor(start time.Time) {
	if s.minOpTime <= 0 {
		return
	}
	if elapsed := s.now().Sub(start); elapsed < s.minOpTime {
		s.sleep(s.minOpTime - elapsed)
	}
}
