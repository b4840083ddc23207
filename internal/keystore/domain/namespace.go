package domain

import (
	"strings"
)

// Kind distinguishes the two types of key material held by the store.
type Kind string

const (
	KindFamilyKey  Kind = "familyKey"
	KindPrivateKey Kind = "privateKey"
)

const separator = ":"

// NamespacedKey names one entry of the store as <kind>:<ownerID>.
type NamespacedKey struct {
	Kind    Kind
	OwnerID string
}

// FamilyKeyName returns the store name for the family key of familyID.
func FamilyKeyName(familyID string) NamespacedKey {
	return NamespacedKey{Kind: KindFamilyKey, OwnerID: familyID}
}

// PrivateKeyName returns the store name for the private key of userID.
func PrivateKeyName(userID string) NamespacedKey {
	return NamespacedKey{Kind: KindPrivateKey, OwnerID: userID}
}

// ParseNamespacedKey parses the string form produced by NamespacedKey.String.
func ParseNamespacedKey(s string) (NamespacedKey, error) {
	kind, owner, ok := strings.Cut(s, separator)
	if !ok {
		return NamespacedKey{}, ErrInvalidNamespacedKey
	}
	key := NamespacedKey{Kind: Kind(kind), OwnerID: owner}
	if err := key.Validate(); err != nil {
		return NamespacedKey{}, err
	}
	return key, nil
}

// Validate checks the kind is known and the owner id is non-blank and has no separator.
func (k NamespacedKey) Validate() error {
	switch k.Kind {
	case KindFamilyKey, KindPrivateKey:
	default:
		return ErrInvalidNamespacedKey
	}
	if strings.TrimSpace(k.OwnerID) == "" || strings.Contains(k.OwnerID, separator) {
		return ErrInvalidNamespacedKey
	}
	return nil
}

// String returns the persisted form, e.g. familyKey:7f0c.
func (k NamespacedKey) String() string {
	return string(k.Kind) + separator + k.OwnerID
}
