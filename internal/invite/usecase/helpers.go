package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	"github.com/allisson/familykeys/internal/database"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
)

// sealFamilyKey stores familyKey for familyID unless one is already stored. An identical
// stored key is a no-op; a different one fails closed with ErrFamilyKeyConflict.
func sealFamilyKey(
	ctx context.Context,
	txManager database.TxManager,
	store keystoreUseCase.UseCase,
	familyID string,
	familyKey *cryptoDomain.FamilyKey,
) error {
	return txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, found, err := store.GetFamilyKey(ctx, familyID)
		if err != nil {
			return err
		}
		if found {
			defer existing.Zero()
			if existing.Equal(familyKey) {
				return nil
			}
			return inviteDomain.ErrFamilyKeyConflict
		}
		return store.PutFamilyKey(ctx, familyID, familyKey)
	})
}
