// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	// ErrGroupNotProtected is returned when an operation needs a configured
	// group password and none exists.
	ErrGroupNotProtected = errors.New("group has no password protection")

	// ErrSessionExpired is returned when an operation needs a live key
	// session and the group's key has timed out or was never unlocked.
	ErrSessionExpired = errors.New("no active key session for group")
)
