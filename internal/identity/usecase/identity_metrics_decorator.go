package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	identityDomain "github.com/allisson/familykeys/internal/identity/domain"
	"github.com/allisson/familykeys/internal/metrics"
)

type identityUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewIdentityUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewIdentityUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &identityUseCaseWithMetrics{next: useCase, metrics: m}
}

func (i *identityUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, i.metrics, "identity", operation, start, err)
}

func (i *identityUseCaseWithMetrics) Register(ctx context.Context, userID string) (*identityDomain.Identity, error) {
	start := time.Now()
	identity, err := i.next.Register(ctx, userID)
	i.record(ctx, "register", start, err)
	return identity, err
}

func (i *identityUseCaseWithMetrics) KeyPair(ctx context.Context, userID string) (*cryptoDomain.KeyPair, error) {
	start := time.Now()
	keyPair, err := i.next.KeyPair(ctx, userID)
	i.record(ctx, "key_pair", start, err)
	return keyPair, err
}

func (i *identityUseCaseWithMetrics) RepublishPublicKey(
	ctx context.Context,
	userID string,
) (*identityDomain.Identity, error) {
	start := time.Now()
	identity, err := i.next.RepublishPublicKey(ctx, userID)
	i.record(ctx, "republish_public_key", start, err)
	return identity, err
}
