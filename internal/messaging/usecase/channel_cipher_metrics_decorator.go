package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	messagingDomain "github.com/allisson/familykeys/internal/messaging/domain"
	"github.com/allisson/familykeys/internal/metrics"
)

const metricsDomain = "messaging"

type channelCipherWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewChannelCipherWithMetrics wraps a UseCase with metrics recording.
func NewChannelCipherWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &channelCipherWithMetrics{next: useCase, metrics: m}
}

func (c *channelCipherWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, c.metrics, metricsDomain, operation, start, err)
}

func (c *channelCipherWithMetrics) Encrypt(
	ctx context.Context,
	familyID, plaintext string,
) (cryptoDomain.CiphertextBlob, error) {
	start := time.Now()
	blob, err := c.next.Encrypt(ctx, familyID, plaintext)
	c.record(ctx, "encrypt", start, err)
	return blob, err
}

func (c *channelCipherWithMetrics) DecryptBatch(
	ctx context.Context,
	familyID string,
	messages []messagingDomain.Message,
) ([]messagingDomain.DecryptedMessage, error) {
	start := time.Now()
	results, err := c.next.DecryptBatch(ctx, familyID, messages)
	c.record(ctx, "decrypt_batch", start, err)
	return results, err
}

// AwaitAndDecrypt delegates without recording; its duration is user wait time.
func (c *channelCipherWithMetrics) AwaitAndDecrypt(
	ctx context.Context,
	familyID string,
	messages []messagingDomain.Message,
) ([]messagingDomain.DecryptedMessage, error) {
	return c.next.AwaitAndDecrypt(ctx, familyID, messages)
}
