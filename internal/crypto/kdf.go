// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/sora-grayscale/spliit-sub000/models"
)

const (
	// MinIterations is the lowest PBKDF2 iteration count accepted. Anything
	// below is too cheap to brute-force offline.
	MinIterations = 10_000

	// MaxIterations caps attacker-supplied iteration counts so a hostile
	// context cannot be used to burn CPU.
	MaxIterations = 1_000_000

	// DefaultIterations is used for freshly generated contexts.
	DefaultIterations = 100_000

	// SaltSize is the salt length GenerateContext produces and the minimum
	// DeriveKey accepts.
	SaltSize = 16

	// KeySize is the derived key length: 32 bytes for AES-256.
	KeySize = 32
)

// keyService is the private implementation of [KeyService].
type keyService struct {
	iterations int
}

// NewKeyService constructs a [KeyService] using the default iteration count
// for new contexts.
func NewKeyService() KeyService {
	return &keyService{iterations: DefaultIterations}
}

// NewKeyServiceWithIterations constructs a [KeyService] that stamps new
// contexts with the given iteration count. Used when the deployment raises
// the default; iterations must still pass DeriveKey's bounds.
func NewKeyServiceWithIterations(iterations int) KeyService {
	return &keyService{iterations: iterations}
}

// GenerateContext implements [KeyService]. It reads SaltSize random bytes
// from the OS CSPRNG and pairs them with the configured iteration count.
func (k *keyService) GenerateContext() (models.EncryptionContext, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return models.EncryptionContext{}, fmt.Errorf("generate salt: %w", err)
	}

	return models.EncryptionContext{Salt: salt, Iterations: k.iterations}, nil
}

// DeriveKey implements [KeyService]. PBKDF2-SHA256 with the context's
// iteration count, 32-byte output.
func (k *keyService) DeriveKey(password string, ctx models.EncryptionContext) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("empty password: %w", ErrInvalidInput)
	}
	if len(ctx.Salt) < SaltSize {
		return nil, fmt.Errorf("salt length %d: %w", len(ctx.Salt), ErrInvalidInput)
	}
	if ctx.Iterations < MinIterations || ctx.Iterations > MaxIterations {
		return nil, fmt.Errorf("iteration count %d: %w", ctx.Iterations, ErrInvalidParameters)
	}

	return pbkdf2.Key([]byte(password), ctx.Salt, ctx.Iterations, KeySize, sha256.New), nil
}
