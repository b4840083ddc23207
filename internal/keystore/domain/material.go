package domain

import (
	"log/slog"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

const redacted = "[REDACTED]"

// KeyMaterial is a raw key held by the store.
//
// It is a handle rather than a serializable value: fmt, slog and encoding/json all see a
// redacted placeholder or an error, never the bytes.
type KeyMaterial struct {
	kind Kind
	raw  []byte
}

// NewKeyMaterial copies raw into a new KeyMaterial of the given kind.
func NewKeyMaterial(kind Kind, raw []byte) (*KeyMaterial, error) {
	if len(raw) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	m := &KeyMaterial{kind: kind, raw: make([]byte, len(raw))}
	copy(m.raw, raw)
	return m, nil
}

// FamilyKeyMaterial wraps a family key for storage.
func FamilyKeyMaterial(fk *cryptoDomain.FamilyKey) (*KeyMaterial, error) {
	raw := fk.Bytes()
	defer cryptoDomain.Zero(raw)
	return NewKeyMaterial(KindFamilyKey, raw)
}

// PrivateKeyMaterial wraps the private half of a keypair for storage.
func PrivateKeyMaterial(kp *cryptoDomain.KeyPair) (*KeyMaterial, error) {
	return NewKeyMaterial(KindPrivateKey, kp.PrivateKey[:])
}

// Kind returns the kind of material.
func (m *KeyMaterial) Kind() Kind { return m.kind }

// Bytes returns a copy of the raw key. Callers should Zero the copy when done.
func (m *KeyMaterial) Bytes() []byte {
	out := make([]byte, len(m.raw))
	copy(out, m.raw)
	return out
}

// FamilyKey converts family key material back into a FamilyKey.
func (m *KeyMaterial) FamilyKey() (*cryptoDomain.FamilyKey, error) {
	if m.kind != KindFamilyKey {
		return nil, ErrKindMismatch
	}
	return cryptoDomain.NewFamilyKey(m.raw)
}

// KeyPair converts private key material back into a keypair, deriving the public half.
func (m *KeyMaterial) KeyPair() (*cryptoDomain.KeyPair, error) {
	if m.kind != KindPrivateKey {
		return nil, ErrKindMismatch
	}
	return cryptoDomain.KeyPairFromPrivate(m.raw)
}

// Zero wipes the material.
func (m *KeyMaterial) Zero() {
	if m == nil {
		return
	}
	cryptoDomain.Zero(m.raw)
}

// String implements fmt.Stringer and shows only the kind.
func (m *KeyMaterial) String() string { return "KeyMaterial{" + string(m.kind) + " " + redacted + "}" }

// GoString implements fmt.GoStringer so %#v stays redacted.
func (m *KeyMaterial) GoString() string { return m.String() }

// LogValue implements slog.LogValuer without revealing key material.
func (m *KeyMaterial) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", string(m.kind)), slog.String("raw", redacted))
}

// MarshalJSON refuses to serialize key material.
func (m *KeyMaterial) MarshalJSON() ([]byte, error) { return nil, ErrExportRefused }

// MarshalText refuses to serialize key material.
func (m *KeyMaterial) MarshalText() ([]byte, error) { return nil, ErrExportRefused }
