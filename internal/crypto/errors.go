package crypto

import "errors"

var (
	// ErrInvalidParameters indicates a key-derivation parameter outside the
	// accepted range (iteration count too low or too high). This is a caller
	// bug, never retried.
	ErrInvalidParameters = errors.New("invalid key derivation parameters")

	// ErrInvalidInput indicates an empty password, a short salt, a wrong key
	// length, or a malformed serialized payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthenticationFailed indicates the AEAD tag did not verify: wrong
	// key, corrupted data, or tampering. It is the only failure mode the
	// decrypt path exposes; no partial plaintext is ever returned.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidDecryptedStructure indicates decryption succeeded but the
	// plaintext did not parse into the expected structure. Kept distinct from
	// ErrAuthenticationFailed for diagnostics.
	ErrInvalidDecryptedStructure = errors.New("decrypted payload has invalid structure")
)
