package store

import "errors"

var (
	// ErrNotFound is returned when a queried group record or field does not
	// exist.
	ErrNotFound = errors.New("record is not found")

	// ErrIterationsDowngrade is returned when a save would lower the
	// iteration count of an existing encryption context. Iteration counts
	// only ever grow across schema versions.
	ErrIterationsDowngrade = errors.New("iteration count downgrade refused")
)
