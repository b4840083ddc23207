package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
)

const redacted = "[REDACTED]"

// FamilyKey is the shared 256-bit symmetric key that encrypts every message of a family.
//
// Every member device holds a byte-identical copy. The type redacts itself in fmt and
// slog output so it cannot end up in logs by accident.
type FamilyKey struct {
	key [KeySize]byte
}

// GenerateFamilyKey creates a new random family key using crypto/rand.
func GenerateFamilyKey() (*FamilyKey, error) {
	fk := &FamilyKey{}
	if _, err := rand.Read(fk.key[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return fk, nil
}

// NewFamilyKey copies raw key bytes into a FamilyKey.
// Returns ErrInvalidKeySize unless raw is exactly 32 bytes.
func NewFamilyKey(raw []byte) (*FamilyKey, error) {
	if len(raw) != KeySize {
		return nil, ErrInvalidKeySize
	}
	fk := &FamilyKey{}
	copy(fk.key[:], raw)
	return fk, nil
}

// ParseFamilyKey decodes a standard base64 family key as carried in invite codes.
func ParseFamilyKey(b64 string) (*FamilyKey, error) {
	raw, err := base64.StdEncoding.Strict().DecodeString(b64)
	if err != nil {
		return nil, ErrInvalidFamilyKey
	}
	defer Zero(raw)

	fk, err := NewFamilyKey(raw)
	if err != nil {
		return nil, ErrInvalidFamilyKey
	}
	return fk, nil
}

// Bytes returns a copy of the raw key bytes. Callers should Zero the copy when done.
func (f *FamilyKey) Bytes() []byte {
	out := make([]byte, KeySize)
	copy(out, f.key[:])
	return out
}

// Base64 returns the standard base64 encoding used in the client-side invite code.
func (f *FamilyKey) Base64() string {
	return base64.StdEncoding.EncodeToString(f.key[:])
}

// Equal reports whether both keys hold the same bytes, in constant time.
func (f *FamilyKey) Equal(other *FamilyKey) bool {
	if f == nil || other == nil {
		return f == other
	}
	return subtle.ConstantTimeCompare(f.key[:], other.key[:]) == 1
}

// Zero wipes the key material.
func (f *FamilyKey) Zero() {
	if f == nil {
		return
	}
	Zero(f.key[:])
}

// String implements fmt.Stringer without revealing key material.
func (f *FamilyKey) String() string { return redacted }

// GoString implements fmt.GoStringer without revealing key material.
func (f *FamilyKey) GoString() string { return "domain.FamilyKey{" + redacted + "}" }

// LogValue implements slog.LogValuer without revealing key material.
func (f *FamilyKey) LogValue() slog.Value { return slog.StringValue(redacted) }
