package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
	keystoreMocks "github.com/allisson/familykeys/internal/keystore/mocks"
	keystoreService "github.com/allisson/familykeys/internal/keystore/service"
	keystoreTesting "github.com/allisson/familykeys/internal/keystore/testing"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	recoveryDomain "github.com/allisson/familykeys/internal/recovery/domain"
)

func TestChecker_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("KeyPresent", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		require.NoError(t, store.PutPrivateKey(ctx, "u1", keystoreTesting.MustKeyPair()))
		require.NoError(t, store.PutFamilyKey(ctx, "f1", keystoreTesting.MustFamilyKey()))

		checker := NewChecker(store, keystoreTesting.DiscardLogger())
		assert.Equal(t, recoveryDomain.StateUnknown, checker.State())

		report, err := checker.Check(ctx, "u1", "f1")
		require.NoError(t, err)
		assert.Equal(t, recoveryDomain.StateKeyPresent, report.State)
		assert.True(t, report.HistoryReadable())
		assert.Empty(t, report.Missing)
		assert.False(t, report.NeedsNotice)
		assert.Equal(t, recoveryDomain.StateKeyPresent, checker.State())
	})

	t.Run("KeyMissing_ThenRecoveredWithoutCaching", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		require.NoError(t, store.PutPrivateKey(ctx, "u1", keystoreTesting.MustKeyPair()))

		checker := NewChecker(store, keystoreTesting.DiscardLogger())

		report, err := checker.Check(ctx, "u1", "f1")
		require.NoError(t, err)
		assert.Equal(t, recoveryDomain.StateKeyMissing, report.State)
		assert.Equal(t, []keystoreDomain.NamespacedKey{keystoreDomain.FamilyKeyName("f1")}, report.Missing)
		assert.True(t, report.NeedsNotice)

		checker.Acknowledge()
		report, err = checker.Check(ctx, "u1", "f1")
		require.NoError(t, err)
		assert.Equal(t, recoveryDomain.StateKeyMissing, report.State)
		assert.False(t, report.NeedsNotice)

		// A re-wrapped key arrives out of band.
		require.NoError(t, store.PutFamilyKey(ctx, "f1", keystoreTesting.MustFamilyKey()))
		report, err = checker.Check(ctx, "u1", "f1")
		require.NoError(t, err)
		assert.Equal(t, recoveryDomain.StateKeyPresent, report.State)
	})

	t.Run("NewDevice_PrivateKeyMissing", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()

		report, err := NewChecker(store, keystoreTesting.DiscardLogger()).Check(ctx, "u1", "")
		require.NoError(t, err)
		assert.Equal(t, recoveryDomain.StateKeyMissing, report.State)
		assert.Equal(t, []keystoreDomain.NamespacedKey{keystoreDomain.PrivateKeyName("u1")}, report.Missing)
	})

	t.Run("UnopenableEntry_CountsAsMissing", func(t *testing.T) {
		store, repo, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		require.NoError(t, store.PutPrivateKey(ctx, "u1", keystoreTesting.MustKeyPair()))

		// Same entries, different device key.
		keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, keystoreTesting.NewDeviceKeyURI())
		require.NoError(t, err)
		defer func() { _ = keeper.Close() }()
		reopened := keystoreUseCase.NewKeystoreUseCase(
			repo, keystoreService.NewKMSSealer(keeper), keystoreTesting.DiscardLogger())

		checker := NewChecker(reopened, keystoreTesting.DiscardLogger())
		report, err := checker.Check(ctx, "u1", "")
		require.NoError(t, err)
		assert.Equal(t, recoveryDomain.StateKeyMissing, report.State)
		assert.Equal(t, []keystoreDomain.NamespacedKey{keystoreDomain.PrivateKeyName("u1")}, report.Missing)
		assert.True(t, report.NeedsNotice)
		assert.Equal(t, recoveryDomain.StateKeyMissing, checker.State())
	})

	t.Run("KDFPolicyRejected_CountsAsMissing", func(t *testing.T) {
		material, err := keystoreDomain.PrivateKeyMaterial(keystoreTesting.MustKeyPair())
		require.NoError(t, err)

		store := &keystoreMocks.MockKeystoreUseCase{}
		store.On("Get", mock.Anything, keystoreDomain.PrivateKeyName("u1")).Return(material, true, nil)
		store.On("Get", mock.Anything, keystoreDomain.FamilyKeyName("f1")).
			Return(nil, false, keystoreDomain.ErrKDFPolicy)

		report, err := NewChecker(store, keystoreTesting.DiscardLogger()).Check(ctx, "u1", "f1")
		require.NoError(t, err)
		assert.Equal(t, recoveryDomain.StateKeyMissing, report.State)
		assert.Equal(t, []keystoreDomain.NamespacedKey{keystoreDomain.FamilyKeyName("f1")}, report.Missing)
	})

	t.Run("StorageUnavailable", func(t *testing.T) {
		store := &keystoreMocks.MockKeystoreUseCase{}
		store.On("Get", mock.Anything, mock.Anything).Return(nil, false, keystoreDomain.ErrStorageUnavailable)

		checker := NewChecker(store, keystoreTesting.DiscardLogger())
		report, err := checker.Check(ctx, "u1", "f1")
		assert.ErrorIs(t, err, keystoreDomain.ErrStorageUnavailable)
		assert.Equal(t, recoveryDomain.StateUnavailable, report.State)
		assert.False(t, report.HistoryReadable())
		assert.Equal(t, recoveryDomain.StateUnavailable, checker.State())
	})
}
