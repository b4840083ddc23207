package domain

import (
	"crypto/subtle"
	"encoding/base64"
	"log/slog"

	"golang.org/x/crypto/curve25519"
)

// PublicKeyEncodedLen is the exact length of a standard base64 encoded X25519 public key.
var PublicKeyEncodedLen = base64.StdEncoding.EncodedLen(KeySize)

// KeyPair is a user's X25519 box keypair.
//
// The public half is published to the server; the private half is sealed in the local
// key store and never leaves the device unencrypted.
type KeyPair struct {
	PublicKey  [KeySize]byte
	PrivateKey [KeySize]byte
}

// KeyPairFromPrivate rebuilds a keypair from the private scalar, deriving the public half.
func KeyPairFromPrivate(private []byte) (*KeyPair, error) {
	if len(private) != KeySize {
		return nil, ErrInvalidKeySize
	}
	public, err := curve25519.X25519(private, curve25519.Basepoint)
	if err != nil {
		return nil, ErrInvalidKeySize
	}
	kp := &KeyPair{}
	copy(kp.PrivateKey[:], private)
	copy(kp.PublicKey[:], public)
	return kp, nil
}

// PublicKeyBase64 returns the transport encoding of the public key.
func (k *KeyPair) PublicKeyBase64() string {
	return EncodePublicKey(k.PublicKey)
}

// Zero wipes the private half.
func (k *KeyPair) Zero() {
	if k == nil {
		return
	}
	Zero(k.PrivateKey[:])
}

// String implements fmt.Stringer, showing only the public half.
func (k *KeyPair) String() string {
	return "KeyPair{public:" + k.PublicKeyBase64() + " private:" + redacted + "}"
}

// LogValue implements slog.LogValuer, showing only the public half.
func (k *KeyPair) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("public_key", k.PublicKeyBase64()),
		slog.String("private_key", redacted),
	)
}

// EncodePublicKey encodes a public key for transport.
func EncodePublicKey(pub [KeySize]byte) string {
	return base64.StdEncoding.EncodeToString(pub[:])
}

// ParsePublicKey decodes and validates a transported public key.
//
// The encoded length is checked before decoding so malformed input is rejected early,
// and the all-zero point is refused because it yields an all-zero shared secret.
func ParsePublicKey(b64 string) ([KeySize]byte, error) {
	var pub [KeySize]byte
	if len(b64) != PublicKeyEncodedLen {
		return pub, ErrInvalidPublicKey
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(b64)
	if err != nil || len(raw) != KeySize {
		return pub, ErrInvalidPublicKey
	}
	copy(pub[:], raw)

	var zero [KeySize]byte
	if subtle.ConstantTimeCompare(pub[:], zero[:]) == 1 {
		return [KeySize]byte{}, ErrInvalidPublicKey
	}
	return pub, nil
}
