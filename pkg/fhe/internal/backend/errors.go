package backend

import "errors"

var (
	// ErrInvalidParam reports an argument the engine never saw because it was
	// rejected locally (bad size, unknown enum value, mismatched kind).
	ErrInvalidParam = errors.New("fhe/internal/backend: invalid parameter")

	// ErrCrypto reports a failure raised by the engine or by a state check
	// that guards an engine call (missing feature, wrong key, bad ordering).
	ErrCrypto = errors.New("fhe/internal/backend: cryptographic operation failed")

	// ErrSerialization reports a malformed or incompatible encoded payload.
	ErrSerialization = errors.New("fhe/internal/backend: serialization failed")

	// ErrKeyNotFound reports that the evaluation key an operation needs was
	// never generated or installed for the ciphertext's key tag.
	ErrKeyNotFound = errors.New("fhe/internal/backend: evaluation key not found")

	// ErrReleased reports use of key material or a context after release.
	ErrReleased = errors.New("fhe/internal/backend: resource released")
)
