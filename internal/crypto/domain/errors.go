package domain

import (
	"github.com/allisson/familykeys/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap the standard errors from internal/errors so
// callers can branch either on the exact failure or on its category.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// Family keys and X25519 keys must be exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyGeneration indicates the random number generator or a primitive is unavailable.
	//
	// Fatal for the operation that needed the key: registration and family creation must
	// abort rather than continue with weak or missing key material.
	ErrKeyGeneration = errors.Wrap(errors.ErrUnavailable, "key generation failed")

	// ErrAuthenticationFailure indicates symmetric decryption failed.
	//
	// This error can occur due to:
	//   - Wrong family key used
	//   - Ciphertext blob has been tampered with
	//   - Blob is truncated or not a blob at all
	//
	// The cause is deliberately not disclosed. Callers render an "undecryptable"
	// placeholder and must not retry with other keys.
	ErrAuthenticationFailure = errors.Wrap(errors.ErrInvalidInput, "authentication failure")

	// ErrNonCanonicalEncoding indicates base64 input that is not the exact canonical encoding.
	ErrNonCanonicalEncoding = errors.Wrap(errors.ErrInvalidInput, "non-canonical base64 encoding")

	// ErrUnwrapFailure indicates an invite envelope could not be opened.
	//
	// Distinct from ErrEnvelopeNotFound: an envelope existed but the nonce, the keys or the
	// ciphertext did not verify, which may indicate tampering.
	ErrUnwrapFailure = errors.Wrap(errors.ErrInvalidInput, "unwrap failure")

	// ErrEnvelopeNotFound indicates no envelope has been delivered yet.
	ErrEnvelopeNotFound = errors.Wrap(errors.ErrNotFound, "envelope not found")

	// ErrInvalidPublicKey indicates an encoded public key is malformed.
	ErrInvalidPublicKey = errors.Wrap(errors.ErrInvalidInput, "invalid public key")

	// ErrInvalidFamilyKey indicates an encoded family key is malformed.
	ErrInvalidFamilyKey = errors.Wrap(errors.ErrInvalidInput, "invalid family key")

	// ErrKeyMissing indicates key material required for an operation is not on this device.
	//
	// This is a steady state, not a crypto failure: it is resolved by the recovery flow
	// and must never be reported as ErrAuthenticationFailure.
	ErrKeyMissing = errors.Wrap(errors.ErrNotFound, "key missing")
)
