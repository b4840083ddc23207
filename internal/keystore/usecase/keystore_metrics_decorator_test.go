package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
	keystoreMocks "github.com/allisson/familykeys/internal/keystore/mocks"
	metricsMocks "github.com/allisson/familykeys/internal/metrics/mocks"
)

func TestKeystoreUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	key := keystoreDomain.FamilyKeyName("A")

	t.Run("Success_RecordsSuccess", func(t *testing.T) {
		next := &keystoreMocks.MockKeystoreUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		decorated := NewKeystoreUseCaseWithMetrics(next, m)

		next.On("Get", ctx, key).Return(nil, false, nil).Once()
		m.On("RecordOperation", ctx, "keystore", "get", "success").Once()
		m.On("RecordDuration", ctx, "keystore", "get", mock.AnythingOfType("time.Duration"), "success").Once()

		material, found, err := decorated.Get(ctx, key)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, material)

		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Error_RecordsError", func(t *testing.T) {
		next := &keystoreMocks.MockKeystoreUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		decorated := NewKeystoreUseCaseWithMetrics(next, m)

		next.On("Wipe", ctx).Return(keystoreDomain.ErrStorageUnavailable).Once()
		m.On("RecordOperation", ctx, "keystore", "wipe", "unavailable").Once()
		m.On("RecordDuration", ctx, "keystore", "wipe", mock.AnythingOfType("time.Duration"), "unavailable").Once()

		err := decorated.Wipe(ctx)
		assert.ErrorIs(t, err, keystoreDomain.ErrStorageUnavailable)

		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Success_AwaitIsNotRecorded", func(t *testing.T) {
		next := &keystoreMocks.MockKeystoreUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		decorated := NewKeystoreUseCaseWithMetrics(next, m)

		next.On("Await", ctx, key).Return(nil, context.Canceled).Once()

		_, err := decorated.Await(ctx, key)
		assert.ErrorIs(t, err, context.Canceled)
		m.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
