package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoMocks "github.com/allisson/familykeys/internal/crypto/mocks"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	"github.com/allisson/familykeys/internal/errors"
	identityDomain "github.com/allisson/familykeys/internal/identity/domain"
	identityMocks "github.com/allisson/familykeys/internal/identity/mocks"
	keystoreTesting "github.com/allisson/familykeys/internal/keystore/testing"
)

func TestIdentityUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SealsAndPublishes", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		publisher := &identityMocks.MockPublicKeyPublisher{}
		uc := NewIdentityUseCase(store, cryptoService.NewKeyPairGenerator(), publisher, keystoreTesting.DiscardLogger())

		publisher.On("PublishPublicKey", ctx, "user-1", mock.AnythingOfType("string")).Return(nil).Once()

		identity, err := uc.Register(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.UserID)
		assert.Len(t, identity.PublicKey, cryptoDomain.PublicKeyEncodedLen)

		published := publisher.Calls[0].Arguments.String(2)
		assert.Equal(t, identity.PublicKey, published)

		keyPair, err := uc.KeyPair(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, identity.PublicKey, keyPair.PublicKeyBase64())
		publisher.AssertExpectations(t)
	})

	t.Run("Error_AlreadyRegistered", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		publisher := &identityMocks.MockPublicKeyPublisher{}
		uc := NewIdentityUseCase(store, cryptoService.NewKeyPairGenerator(), publisher, keystoreTesting.DiscardLogger())

		publisher.On("PublishPublicKey", ctx, "user-1", mock.Anything).Return(nil).Once()
		first, err := uc.Register(ctx, "user-1")
		require.NoError(t, err)

		_, err = uc.Register(ctx, "user-1")
		assert.ErrorIs(t, err, identityDomain.ErrIdentityExists)
		assert.ErrorIs(t, err, errors.ErrConflict)

		keyPair, err := uc.KeyPair(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, first.PublicKey, keyPair.PublicKeyBase64())
		publisher.AssertNumberOfCalls(t, "PublishPublicKey", 1)
	})

	t.Run("Error_GenerationFailureIsFatal", func(t *testing.T) {
		store, repo, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		generator := &cryptoMocks.MockKeyPairGenerator{}
		publisher := &identityMocks.MockPublicKeyPublisher{}
		uc := NewIdentityUseCase(store, generator, publisher, keystoreTesting.DiscardLogger())

		generator.On("Generate").Return(nil, cryptoDomain.ErrKeyGeneration).Once()

		_, err := uc.Register(ctx, "user-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyGeneration)

		keys, err := repo.ListKeys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
		publisher.AssertNotCalled(t, "PublishPublicKey", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_PublishFailureKeepsSealedKey", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		publisher := &identityMocks.MockPublicKeyPublisher{}
		uc := NewIdentityUseCase(store, cryptoService.NewKeyPairGenerator(), publisher, keystoreTesting.DiscardLogger())

		publisher.On("PublishPublicKey", ctx, "user-1", mock.Anything).Return(errors.ErrUnavailable).Once()
		_, err := uc.Register(ctx, "user-1")
		assert.ErrorIs(t, err, errors.ErrUnavailable)

		publisher.On("PublishPublicKey", ctx, "user-1", mock.Anything).Return(nil).Once()
		identity, err := uc.RepublishPublicKey(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, publisher.Calls[0].Arguments.String(2), identity.PublicKey)
		publisher.AssertExpectations(t)
	})

	t.Run("Error_InvalidUserID", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		uc := NewIdentityUseCase(
			store,
			cryptoService.NewKeyPairGenerator(),
			&identityMocks.MockPublicKeyPublisher{},
			keystoreTesting.DiscardLogger(),
		)

		for _, userID := range []string{"", "user:1", "user 1"} {
			_, err := uc.Register(ctx, userID)
			assert.ErrorIs(t, err, errors.ErrInvalidInput, userID)
		}
	})
}

func TestIdentityUseCase_KeyPair(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_KeyMissing", func(t *testing.T) {
		store, _, closeStore := keystoreTesting.NewKeystore()
		defer closeStore()
		uc := NewIdentityUseCase(
			store,
			cryptoService.NewKeyPairGenerator(),
			&identityMocks.MockPublicKeyPublisher{},
			keystoreTesting.DiscardLogger(),
		)

		_, err := uc.KeyPair(ctx, "user-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyMissing)

		_, err = uc.RepublishPublicKey(ctx, "user-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyMissing)
	})
}
