package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	"github.com/allisson/familykeys/internal/errors"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	messagingDomain "github.com/allisson/familykeys/internal/messaging/domain"
)

// DefaultConcurrency bounds parallel decrypts in a batch when none is configured.
const DefaultConcurrency = 4

type channelCipher struct {
	keystore    keystoreUseCase.UseCase
	cipher      cryptoService.ContentCipher
	concurrency int
	logger      *slog.Logger
}

// NewChannelCipher creates the message UseCase. concurrency <= 0 uses DefaultConcurrency.
func NewChannelCipher(
	keystore keystoreUseCase.UseCase,
	cipher cryptoService.ContentCipher,
	concurrency int,
	logger *slog.Logger,
) UseCase {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &channelCipher{
		keystore:    keystore,
		cipher:      cipher,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (c *channelCipher) Encrypt(
	ctx context.Context,
	familyID, plaintext string,
) (cryptoDomain.CiphertextBlob, error) {
	var blob cryptoDomain.CiphertextBlob

	err := c.keystore.WithKey(ctx, keystoreDomain.FamilyKeyName(familyID), func(material *keystoreDomain.KeyMaterial) error {
		familyKey, err := material.FamilyKey()
		if err != nil {
			return err
		}
		defer familyKey.Zero()

		blob, err = c.cipher.Encrypt(plaintext, familyKey)
		return err
	})
	if err != nil {
		return "", err
	}
	return blob, nil
}

func (c *channelCipher) DecryptBatch(
	ctx context.Context,
	familyID string,
	messages []messagingDomain.Message,
) ([]messagingDomain.DecryptedMessage, error) {
	var results []messagingDomain.DecryptedMessage

	err := c.keystore.WithKey(ctx, keystoreDomain.FamilyKeyName(familyID), func(material *keystoreDomain.KeyMaterial) error {
		familyKey, err := material.FamilyKey()
		if err != nil {
			return err
		}
		defer familyKey.Zero()

		results, err = c.decryptAll(ctx, familyKey, messages)
		return err
	})
	if errors.Is(err, cryptoDomain.ErrKeyMissing) {
		c.logger.Debug("family key not on device, deferring messages",
			slog.String("family_id", familyID),
			slog.Int("count", len(messages)),
		)
		return deferAll(messages), nil
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *channelCipher) AwaitAndDecrypt(
	ctx context.Context,
	familyID string,
	messages []messagingDomain.Message,
) ([]messagingDomain.DecryptedMessage, error) {
	material, err := c.keystore.Await(ctx, keystoreDomain.FamilyKeyName(familyID))
	if err != nil {
		return nil, err
	}
	material.Zero()

	return c.DecryptBatch(ctx, familyID, messages)
}

func (c *channelCipher) decryptAll(
	ctx context.Context,
	familyKey *cryptoDomain.FamilyKey,
	messages []messagingDomain.Message,
) ([]messagingDomain.DecryptedMessage, error) {
	results := make([]messagingDomain.DecryptedMessage, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, msg := range messages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.decryptOne(familyKey, msg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *channelCipher) decryptOne(
	familyKey *cryptoDomain.FamilyKey,
	msg messagingDomain.Message,
) messagingDomain.DecryptedMessage {
	plaintext, err := c.cipher.Decrypt(msg.Ciphertext, familyKey)
	if err != nil {
		c.logger.Warn("message failed authentication", slog.String("message_id", msg.ID))
		return messagingDomain.DecryptedMessage{
			ID:     msg.ID,
			Status: messagingDomain.StatusUndecryptable,
			Text:   messagingDomain.UndecryptablePlaceholder,
		}
	}
	return messagingDomain.DecryptedMessage{
		ID:     msg.ID,
		Status: messagingDomain.StatusDecrypted,
		Text:   plaintext,
	}
}

func deferAll(messages []messagingDomain.Message) []messagingDomain.DecryptedMessage {
	results := make([]messagingDomain.DecryptedMessage, len(messages))
	for i, msg := range messages {
		results[i] = messagingDomain.DecryptedMessage{ID: msg.ID, Status: messagingDomain.StatusDeferred}
	}
	return results
}
