package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

const boxNonceSize = 24

// BoxKeyWrapper implements KeyWrapper with nacl/box (X25519, XSalsa20 and Poly1305).
//
// box authenticates the sender as well as encrypting: an envelope only opens under the
// public key of the private key that sealed it, so a relay cannot forge one.
type BoxKeyWrapper struct {
	rand io.Reader
}

// NewKeyWrapper creates a BoxKeyWrapper backed by crypto/rand.
func NewKeyWrapper() *BoxKeyWrapper {
	return &BoxKeyWrapper{rand: rand.Reader}
}

// Wrap seals the raw family key for one recipient under a fresh 24-byte nonce.
func (w *BoxKeyWrapper) Wrap(
	familyKey *cryptoDomain.FamilyKey,
	recipientPublicKey, senderPrivateKey [cryptoDomain.KeySize]byte,
) (*cryptoDomain.WrappedKeyEnvelope, error) {
	if familyKey == nil {
		return nil, cryptoDomain.ErrKeyMissing
	}

	var nonce [boxNonceSize]byte
	if _, err := io.ReadFull(w.rand, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}

	raw := familyKey.Bytes()
	defer cryptoDomain.Zero(raw)

	sealed := box.Seal(nil, raw, &nonce, &recipientPublicKey, &senderPrivateKey)

	return &cryptoDomain.WrappedKeyEnvelope{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
		Nonce:      base64.StdEncoding.EncodeToString(nonce[:]),
	}, nil
}

// Unwrap opens an envelope sealed by the holder of senderPublicKey.
//
// A nil envelope means nothing was delivered and returns ErrEnvelopeNotFound. Any other
// failure, including a plaintext that is not exactly one family key, is ErrUnwrapFailure.
func (w *BoxKeyWrapper) Unwrap(
	envelope *cryptoDomain.WrappedKeyEnvelope,
	senderPublicKey, recipientPrivateKey [cryptoDomain.KeySize]byte,
) (*cryptoDomain.FamilyKey, error) {
	if envelope == nil {
		return nil, cryptoDomain.ErrEnvelopeNotFound
	}

	nonceBytes, err := cryptoDomain.DecodeCanonical(envelope.Nonce)
	if err != nil || len(nonceBytes) != boxNonceSize {
		return nil, cryptoDomain.ErrUnwrapFailure
	}
	sealed, err := cryptoDomain.DecodeCanonical(envelope.Ciphertext)
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailure
	}

	var nonce [boxNonceSize]byte
	copy(nonce[:], nonceBytes)

	raw, ok := box.Open(nil, sealed, &nonce, &senderPublicKey, &recipientPrivateKey)
	if !ok {
		return nil, cryptoDomain.ErrUnwrapFailure
	}
	defer cryptoDomain.Zero(raw)

	familyKey, err := cryptoDomain.NewFamilyKey(raw)
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailure
	}
	return familyKey, nil
}
