package usecase

import (
	"context"
	"log/slog"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	"github.com/allisson/familykeys/internal/database"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	inviteService "github.com/allisson/familykeys/internal/invite/service"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	appValidation "github.com/allisson/familykeys/internal/validation"
)

type familyUseCase struct {
	txManager database.TxManager
	keystore  keystoreUseCase.UseCase
	gateway   FamilyGateway
	codec     inviteService.Codec
	logger    *slog.Logger
}

// NewFamilyUseCase creates the family use case.
func NewFamilyUseCase(
	txManager database.TxManager,
	keystore keystoreUseCase.UseCase,
	gateway FamilyGateway,
	codec inviteService.Codec,
	logger *slog.Logger,
) FamilyUseCase {
	return &familyUseCase{
		txManager: txManager,
		keystore:  keystore,
		gateway:   gateway,
		codec:     codec,
		logger:    logger,
	}
}

// CreateFamily generates the key before calling the server so an RNG failure leaves no
// server-side family behind.
func (f *familyUseCase) CreateFamily(ctx context.Context, name string) (*inviteDomain.FamilyInvite, error) {
	err := validation.Validate(name,
		validation.Required,
		appValidation.NotBlank,
		validation.Length(1, inviteDomain.MaxFamilyNameLength),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	familyKey, err := cryptoDomain.GenerateFamilyKey()
	if err != nil {
		return nil, err
	}
	defer familyKey.Zero()

	family, err := f.gateway.CreateFamily(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := sealFamilyKey(ctx, f.txManager, f.keystore, family.ID, familyKey); err != nil {
		f.logger.ErrorContext(ctx, "family created but key not sealed",
			slog.String("family_id", family.ID), slog.Any("error", err))
		return nil, err
	}

	code, err := f.codec.Mint(family.LookupCode, familyKey.Base64())
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "family created", slog.String("family_id", family.ID))
	return &inviteDomain.FamilyInvite{
		FamilyID:   family.ID,
		FamilyName: family.Name,
		LookupCode: family.LookupCode,
		Code:       code,
	}, nil
}

// ShareInvite rebuilds the full code for a lookup code the server issued earlier.
func (f *familyUseCase) ShareInvite(
	ctx context.Context,
	familyID, lookupCode string,
) (*inviteDomain.FamilyInvite, error) {
	if err := appValidation.WrapValidationError(
		validation.Validate(familyID, validation.Required, appValidation.Identifier),
	); err != nil {
		return nil, err
	}

	familyKey, found, err := f.keystore.GetFamilyKey(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, cryptoDomain.ErrKeyMissing
	}
	defer familyKey.Zero()

	code, err := f.codec.Mint(lookupCode, familyKey.Base64())
	if err != nil {
		return nil, err
	}
	return &inviteDomain.FamilyInvite{FamilyID: familyID, LookupCode: lookupCode, Code: code}, nil
}

// RedeemInvite validates the code before any network call and sends only the lookup portion.
func (f *familyUseCase) RedeemInvite(ctx context.Context, fullCode string) (*inviteDomain.JoinResult, error) {
	code, err := f.codec.Split(fullCode)
	if err != nil {
		return nil, err
	}

	var familyKey *cryptoDomain.FamilyKey
	if code.HasKey() {
		familyKey, err = cryptoDomain.ParseFamilyKey(code.RawKey)
		if err != nil {
			return nil, inviteDomain.ErrMalformedInviteCode
		}
		defer familyKey.Zero()
	}

	family, err := f.gateway.JoinFamily(ctx, code.LookupCode)
	if err != nil {
		return nil, err
	}

	result := &inviteDomain.JoinResult{FamilyID: family.ID, FamilyName: family.Name}
	if familyKey == nil {
		f.logger.InfoContext(ctx, "joined family without key material", slog.String("family_id", family.ID))
		return result, nil
	}

	if err := sealFamilyKey(ctx, f.txManager, f.keystore, family.ID, familyKey); err != nil {
		f.logger.WarnContext(ctx, "invite key not imported",
			slog.String("family_id", family.ID), slog.Any("error", err))
		return nil, err
	}

	result.KeyImported = true
	f.logger.InfoContext(ctx, "joined family", slog.String("family_id", family.ID))
	return result, nil
}
