package usecase

import (
	"context"
	"log/slog"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	"github.com/allisson/familykeys/internal/errors"
	identityDomain "github.com/allisson/familykeys/internal/identity/domain"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	appValidation "github.com/allisson/familykeys/internal/validation"
)

type identityUseCase struct {
	keystore  keystoreUseCase.UseCase
	generator cryptoService.KeyPairGenerator
	publisher PublicKeyPublisher
	logger    *slog.Logger
}

// NewIdentityUseCase creates the identity use case.
func NewIdentityUseCase(
	keystore keystoreUseCase.UseCase,
	generator cryptoService.KeyPairGenerator,
	publisher PublicKeyPublisher,
	logger *slog.Logger,
) UseCase {
	return &identityUseCase{
		keystore:  keystore,
		generator: generator,
		publisher: publisher,
		logger:    logger,
	}
}

func validateUserID(userID string) error {
	return appValidation.WrapValidationError(
		validation.Validate(userID, validation.Required, appValidation.Identifier),
	)
}

// Register seals the private key before publishing, so a failed publish leaves a key
// RepublishPublicKey can send later instead of an identity the server knows but the device lost.
func (i *identityUseCase) Register(ctx context.Context, userID string) (*identityDomain.Identity, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	_, found, err := i.keystore.GetPrivateKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, identityDomain.ErrIdentityExists
	}

	keyPair, err := i.generator.Generate()
	if err != nil {
		i.logger.ErrorContext(ctx, "keypair generation failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, err
	}
	defer keyPair.Zero()

	if err := i.keystore.PutPrivateKey(ctx, userID, keyPair); err != nil {
		return nil, err
	}

	identity := &identityDomain.Identity{UserID: userID, PublicKey: keyPair.PublicKeyBase64()}
	if err := i.publisher.PublishPublicKey(ctx, userID, identity.PublicKey); err != nil {
		i.logger.WarnContext(ctx, "public key sealed but not published",
			slog.String("user_id", userID), slog.Any("error", err))
		return nil, errors.Wrap(err, "failed to publish public key")
	}

	i.logger.InfoContext(ctx, "identity registered", slog.String("user_id", userID))
	return identity, nil
}

// KeyPair loads the sealed keypair of userID.
func (i *identityUseCase) KeyPair(ctx context.Context, userID string) (*cryptoDomain.KeyPair, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	keyPair, found, err := i.keystore.GetPrivateKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, cryptoDomain.ErrKeyMissing
	}
	return keyPair, nil
}

// RepublishPublicKey sends the derived public key of userID to the directory again.
func (i *identityUseCase) RepublishPublicKey(
	ctx context.Context,
	userID string,
) (*identityDomain.Identity, error) {
	keyPair, err := i.KeyPair(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer keyPair.Zero()

	identity := &identityDomain.Identity{UserID: userID, PublicKey: keyPair.PublicKeyBase64()}
	if err := i.publisher.PublishPublicKey(ctx, userID, identity.PublicKey); err != nil {
		return nil, errors.Wrap(err, "failed to publish public key")
	}
	return identity, nil
}
