package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
	"github.com/allisson/familykeys/internal/metrics"
)

const metricsDomain = "keystore"

// keystoreUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type keystoreUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewKeystoreUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewKeystoreUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &keystoreUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (k *keystoreUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, k.metrics, metricsDomain, operation, start, err)
}

// Put records metrics for store writes.
func (k *keystoreUseCaseWithMetrics) Put(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
	material *keystoreDomain.KeyMaterial,
) error {
	start := time.Now()
	err := k.next.Put(ctx, key, material)
	k.record(ctx, "put", start, err)
	return err
}

// Get records metrics for store reads. An absent key is a success.
func (k *keystoreUseCaseWithMetrics) Get(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
) (*keystoreDomain.KeyMaterial, bool, error) {
	start := time.Now()
	material, found, err := k.next.Get(ctx, key)
	k.record(ctx, "get", start, err)
	return material, found, err
}

// Remove records metrics for key removal.
func (k *keystoreUseCaseWithMetrics) Remove(ctx context.Context, key keystoreDomain.NamespacedKey) error {
	start := time.Now()
	err := k.next.Remove(ctx, key)
	k.record(ctx, "remove", start, err)
	return err
}

// Wipe records metrics for store wipes.
func (k *keystoreUseCaseWithMetrics) Wipe(ctx context.Context) error {
	start := time.Now()
	err := k.next.Wipe(ctx)
	k.record(ctx, "wipe", start, err)
	return err
}

// ListKeys delegates without recording.
func (k *keystoreUseCaseWithMetrics) ListKeys(ctx context.Context) ([]keystoreDomain.NamespacedKey, error) {
	return k.next.ListKeys(ctx)
}

// WithKey records metrics for leased use, including the time spent in fn.
func (k *keystoreUseCaseWithMetrics) WithKey(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
	fn func(material *keystoreDomain.KeyMaterial) error,
) error {
	start := time.Now()
	err := k.next.WithKey(ctx, key, fn)
	k.record(ctx, "with_key", start, err)
	return err
}

// Await delegates without recording; its duration is user wait time.
func (k *keystoreUseCaseWithMetrics) Await(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
) (*keystoreDomain.KeyMaterial, error) {
	return k.next.Await(ctx, key)
}

// PutFamilyKey records metrics for family key writes.
func (k *keystoreUseCaseWithMetrics) PutFamilyKey(
	ctx context.Context,
	familyID string,
	familyKey *cryptoDomain.FamilyKey,
) error {
	start := time.Now()
	err := k.next.PutFamilyKey(ctx, familyID, familyKey)
	k.record(ctx, "put_family_key", start, err)
	return err
}

// GetFamilyKey records metrics for family key reads.
func (k *keystoreUseCaseWithMetrics) GetFamilyKey(
	ctx context.Context,
	familyID string,
) (*cryptoDomain.FamilyKey, bool, error) {
	start := time.Now()
	familyKey, found, err := k.next.GetFamilyKey(ctx, familyID)
	k.record(ctx, "get_family_key", start, err)
	return familyKey, found, err
}

// PutPrivateKey records metrics for private key writes.
func (k *keystoreUseCaseWithMetrics) PutPrivateKey(
	ctx context.Context,
	userID string,
	keyPair *cryptoDomain.KeyPair,
) error {
	start := time.Now()
	err := k.next.PutPrivateKey(ctx, userID, keyPair)
	k.record(ctx, "put_private_key", start, err)
	return err
}

// GetPrivateKey records metrics for private key reads.
func (k *keystoreUseCaseWithMetrics) GetPrivateKey(
	ctx context.Context,
	userID string,
) (*cryptoDomain.KeyPair, bool, error) {
	start := time.Now()
	keyPair, found, err := k.next.GetPrivateKey(ctx, userID)
	k.record(ctx, "get_private_key", start, err)
	return keyPair, found, err
}
