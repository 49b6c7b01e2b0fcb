// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package localstore

// KV is the raw key/value persistence the secure store wraps. Values stored
// through it are already protected (or deliberately plaintext legacy data);
// implementations apply no crypto of their own.
type KV interface {
	// Get returns the raw value for key, with found == false when absent.
	Get(key string) (value string, found bool, err error)

	// Set writes the raw value for key, replacing any previous one.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
