package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	"github.com/allisson/familykeys/internal/database"
	"github.com/allisson/familykeys/internal/errors"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	inviteService "github.com/allisson/familykeys/internal/invite/service"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	appValidation "github.com/allisson/familykeys/internal/validation"
)

type inviteUseCase struct {
	txManager database.TxManager
	keystore  keystoreUseCase.UseCase
	wrapper   cryptoService.KeyWrapper
	generator inviteService.LookupCodeGenerator
	directory PublicKeyDirectory
	relay     InviteRelay
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewInviteUseCase creates the encrypted invite use case. A non-positive ttl uses DefaultInviteTTL.
func NewInviteUseCase(
	txManager database.TxManager,
	keystore keystoreUseCase.UseCase,
	wrapper cryptoService.KeyWrapper,
	generator inviteService.LookupCodeGenerator,
	directory PublicKeyDirectory,
	relay InviteRelay,
	ttl time.Duration,
	logger *slog.Logger,
) InviteUseCase {
	if ttl <= 0 {
		ttl = inviteDomain.DefaultInviteTTL
	}
	return &inviteUseCase{
		txManager: txManager,
		keystore:  keystore,
		wrapper:   wrapper,
		generator: generator,
		directory: directory,
		relay:     relay,
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// InviteRegisteredUser wraps the local family key for the invitee. The server receives
// only the envelope, the sender's public key and a fresh lookup code.
func (i *inviteUseCase) InviteRegisteredUser(
	ctx context.Context,
	senderUserID, familyID, inviteeEmail string,
) (*inviteDomain.EncryptedInvite, error) {
	err := validation.Errors{
		"sender_user_id": validation.Validate(senderUserID, validation.Required, appValidation.Identifier),
		"family_id":      validation.Validate(familyID, validation.Required, appValidation.Identifier),
		"invitee_email":  validation.Validate(inviteeEmail, validation.Required, appValidation.Email),
	}.Filter()
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	recipientB64, found, err := i.directory.FetchPublicKey(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, inviteDomain.ErrRecipientKeyNotFound
	}
	recipientPub, err := cryptoDomain.ParsePublicKey(recipientB64)
	if err != nil {
		return nil, err
	}

	sender, found, err := i.keystore.GetPrivateKey(ctx, senderUserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, cryptoDomain.ErrKeyMissing
	}
	defer sender.Zero()

	familyKey, found, err := i.keystore.GetFamilyKey(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, cryptoDomain.ErrKeyMissing
	}
	defer familyKey.Zero()

	envelope, err := i.wrapper.Wrap(familyKey, recipientPub, sender.PrivateKey)
	if err != nil {
		return nil, err
	}

	lookupCode, err := i.generator.Generate()
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrKeyGeneration, err.Error())
	}

	now := i.now()
	invite := &inviteDomain.EncryptedInvite{
		ID:              id,
		FamilyID:        familyID,
		InviteeEmail:    inviteeEmail,
		SenderUserID:    senderUserID,
		SenderPublicKey: sender.PublicKeyBase64(),
		Envelope:        *envelope,
		LookupCode:      lookupCode,
		CreatedAt:       now,
		ExpiresAt:       now.Add(i.ttl),
	}

	if err := i.relay.CreateEncryptedInvite(ctx, invite); err != nil {
		return nil, err
	}

	i.logger.InfoContext(ctx, "encrypted invite created",
		slog.String("invite_id", invite.ID.String()),
		slog.String("family_id", familyID),
		slog.String("user_id", senderUserID),
	)
	return invite, nil
}

// AcceptEncryptedInvite seals the unwrapped key before acknowledging the relay, so a failed
// acknowledgement can be retried with the same record.
func (i *inviteUseCase) AcceptEncryptedInvite(
	ctx context.Context,
	userID string,
	inviteID uuid.UUID,
) (*inviteDomain.JoinResult, error) {
	if err := appValidation.WrapValidationError(
		validation.Validate(userID, validation.Required, appValidation.Identifier),
	); err != nil {
		return nil, err
	}

	invite, err := i.relay.FetchEncryptedInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, cryptoDomain.ErrEnvelopeNotFound
	}
	if invite.IsConsumed() {
		return nil, inviteDomain.ErrInviteConsumed
	}
	if invite.IsExpired(i.now()) {
		return nil, inviteDomain.ErrInviteExpired
	}

	senderPub, err := cryptoDomain.ParsePublicKey(invite.SenderPublicKey)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrUnwrapFailure, "invalid sender public key")
	}

	recipient, found, err := i.keystore.GetPrivateKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, cryptoDomain.ErrKeyMissing
	}
	defer recipient.Zero()

	familyKey, err := i.wrapper.Unwrap(&invite.Envelope, senderPub, recipient.PrivateKey)
	if err != nil {
		i.logger.WarnContext(ctx, "encrypted invite could not be unwrapped",
			slog.String("invite_id", inviteID.String()), slog.String("user_id", userID))
		return nil, err
	}
	defer familyKey.Zero()

	if err := sealFamilyKey(ctx, i.txManager, i.keystore, invite.FamilyID, familyKey); err != nil {
		return nil, err
	}

	family, err := i.relay.AcceptEncryptedInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}

	i.logger.InfoContext(ctx, "encrypted invite accepted",
		slog.String("invite_id", inviteID.String()), slog.String("family_id", invite.FamilyID))
	return &inviteDomain.JoinResult{FamilyID: invite.FamilyID, FamilyName: family.Name, KeyImported: true}, nil
}
