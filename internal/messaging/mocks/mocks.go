// Package mocks provides mock implementations of the messaging interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	messagingDomain "github.com/allisson/familykeys/internal/messaging/domain"
)

// MockMessagingUseCase is a mock implementation of the messaging UseCase.
type MockMessagingUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockMessagingUseCase) Encrypt(
	ctx context.Context,
	familyID, plaintext string,
) (cryptoDomain.CiphertextBlob, error) {
	args := m.Called(ctx, familyID, plaintext)
	return args.Get(0).(cryptoDomain.CiphertextBlob), args.Error(1)
}

// DecryptBatch mocks the DecryptBatch method.
func (m *MockMessagingUseCase) DecryptBatch(
	ctx context.Context,
	familyID string,
	messages []messagingDomain.Message,
) ([]messagingDomain.DecryptedMessage, error) {
	args := m.Called(ctx, familyID, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]messagingDomain.DecryptedMessage), args.Error(1)
}

// AwaitAndDecrypt mocks the AwaitAndDecrypt method.
func (m *MockMessagingUseCase) AwaitAndDecrypt(
	ctx context.Context,
	familyID string,
	messages []messagingDomain.Message,
) ([]messagingDomain.DecryptedMessage, error) {
	args := m.Called(ctx, familyID, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]messagingDomain.DecryptedMessage), args.Error(1)
}
