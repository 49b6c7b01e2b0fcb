// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package service

import (
	"context"

	"github.com/sora-grayscale/spliit-sub000/internal/crypto"
	"github.com/sora-grayscale/spliit-sub000/models"
)

// rememberKeyPrefix namespaces remembered passwords in the local store.
const rememberKeyPrefix = "group-password:"

// rememberPassword stashes a verified password in the encrypted local store
// so the key session can be reopened after it times out, without retyping.
// Best effort: the local store's own max age and per-process master key bound
// how long the stash stays readable.
func (s *passwordService) rememberPassword(groupID, password string) {
	if s.remember == nil {
		return
	}
	if err := s.remember.SetSecure(rememberKeyPrefix+groupID, password); err != nil {
		s.logger.Debug().Err(err).Str("group", groupID).Msg("could not remember password")
	}
}

func (s *passwordService) forgetPassword(groupID string) {
	if s.remember == nil {
		return
	}
	if err := s.remember.Delete(rememberKeyPrefix + groupID); err != nil {
		s.logger.Debug().Err(err).Str("group", groupID).Msg("could not forget remembered password")
	}
}

// restoreSession reopens an expired key session from the remembered password,
// if one is still readable and still matches the stored verification blob.
// A remembered password that no longer verifies (the password was changed
// elsewhere) is dropped.
func (s *passwordService) restoreSession(ctx context.Context, groupID string) ([]byte, bool) {
	if s.remember == nil {
		return nil, false
	}

	password, ok, err := s.remember.GetSecure(rememberKeyPrefix + groupID)
	if err != nil || !ok {
		return nil, false
	}

	rec, err := s.repo.GetRecord(ctx, groupID)
	if err != nil {
		return nil, false
	}

	stored, err := crypto.DecodeField(models.EncryptedField(rec.Verification))
	if err != nil {
		return nil, false
	}

	ok, err = s.verifier.Verify(password, rec.Context, stored)
	if err != nil || !ok {
		s.forgetPassword(groupID)
		return nil, false
	}

	key, err := s.keys.DeriveKey(password, rec.Context)
	if err != nil {
		return nil, false
	}
	s.sessions.Set(groupID, key)

	s.logger.Debug().Str("group", groupID).Msg("key session restored from remembered password")
	return key, true
}

// sessionKey is the session lookup every encrypting and decrypting path goes
// through: the live session first, then the remembered-password fallback.
func (s *passwordService) sessionKey(ctx context.Context, groupID string) ([]byte, bool) {
	if key, ok := s.sessions.Get(groupID); ok {
		return key, true
	}
	return s.restoreSession(ctx, groupID)
}
