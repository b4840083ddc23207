// Package service provides the cryptographic primitives of the end-to-end encryption core.
// Implements AEAD ciphers for message content, X25519 box keypairs and the invite key-wrap.
package service

import (
	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length this cipher expects.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// ContentCipher encrypts and decrypts message bodies under a family key.
type ContentCipher interface {
	// Encrypt seals plaintext into a self-describing ciphertext blob with a fresh nonce.
	Encrypt(plaintext string, key *cryptoDomain.FamilyKey) (cryptoDomain.CiphertextBlob, error)

	// Decrypt opens a ciphertext blob. Every failure is ErrAuthenticationFailure.
	Decrypt(blob cryptoDomain.CiphertextBlob, key *cryptoDomain.FamilyKey) (string, error)
}

// KeyPairGenerator generates per-user asymmetric identities.
type KeyPairGenerator interface {
	// Generate returns a new X25519 keypair or ErrKeyGeneration.
	Generate() (*cryptoDomain.KeyPair, error)
}

// KeyWrapper seals family keys for a single recipient and opens them again.
type KeyWrapper interface {
	// Wrap seals the family key for recipientPublicKey, authenticated by senderPrivateKey.
	Wrap(
		familyKey *cryptoDomain.FamilyKey,
		recipientPublicKey, senderPrivateKey [cryptoDomain.KeySize]byte,
	) (*cryptoDomain.WrappedKeyEnvelope, error)

	// Unwrap opens an envelope produced by the holder of senderPublicKey.
	Unwrap(
		envelope *cryptoDomain.WrappedKeyEnvelope,
		senderPublicKey, recipientPrivateKey [cryptoDomain.KeySize]byte,
	) (*cryptoDomain.FamilyKey, error)
}
