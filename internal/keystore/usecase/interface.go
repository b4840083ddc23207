// Package usecase implements the device-local key store on top of a Repository and a Sealer.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// Repository persists sealed entries.
//
// Implementations must report an absent name as ErrEntryNotFound, including when the
// underlying schema or file has not been created yet, and map engine failures to
// ErrStorageUnavailable.
//
// Available implementations: FileRepository, PostgreSQLRepository, MySQLRepository and
// MemoryRepository.
type Repository interface {
	Save(ctx context.Context, entry *keystoreDomain.Entry) error
	Get(ctx context.Context, key string) (*keystoreDomain.Entry, error)
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
	ListKeys(ctx context.Context) ([]string, error)
}

// UseCase is the local key store.
//
// Material is sealed before it reaches the repository and opened on the way out. Nothing
// here is wired to session logout: key material is only removed by Remove or Wipe.
type UseCase interface {
	// Put seals material under key, replacing any previous value. Waits for in-flight
	// WithKey leases on the same key and wakes Await callers.
	Put(ctx context.Context, key keystoreDomain.NamespacedKey, material *keystoreDomain.KeyMaterial) error

	// Get returns the material stored under key. found is false, with a nil error, when
	// nothing is stored.
	Get(ctx context.Context, key keystoreDomain.NamespacedKey) (material *keystoreDomain.KeyMaterial, found bool, err error)

	// Remove deletes the material stored under key.
	Remove(ctx context.Context, key keystoreDomain.NamespacedKey) error

	// Wipe deletes every entry. This is the explicit user-initiated data wipe.
	Wipe(ctx context.Context) error

	// ListKeys returns the names currently stored.
	ListKeys(ctx context.Context) ([]keystoreDomain.NamespacedKey, error)

	// WithKey runs fn with the material stored under key while holding a read lease on it.
	// Returns ErrKeyMissing when nothing is stored. fn must not write to the same key.
	WithKey(
		ctx context.Context,
		key keystoreDomain.NamespacedKey,
		fn func(material *keystoreDomain.KeyMaterial) error,
	) error

	// Await blocks until material is stored under key or ctx is done.
	Await(ctx context.Context, key keystoreDomain.NamespacedKey) (*keystoreDomain.KeyMaterial, error)

	PutFamilyKey(ctx context.Context, familyID string, familyKey *cryptoDomain.FamilyKey) error
	GetFamilyKey(ctx context.Context, familyID string) (*cryptoDomain.FamilyKey, bool, error)
	PutPrivateKey(ctx context.Context, userID string, keyPair *cryptoDomain.KeyPair) error
	GetPrivateKey(ctx context.Context, userID string) (*cryptoDomain.KeyPair, bool, error)
}
