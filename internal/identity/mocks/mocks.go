// Package mocks provides mock implementations of the identity interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	identityDomain "github.com/allisson/familykeys/internal/identity/domain"
)

// MockPublicKeyPublisher is a mock implementation of PublicKeyPublisher.
type MockPublicKeyPublisher struct {
	mock.Mock
}

// PublishPublicKey mocks the PublishPublicKey method.
func (m *MockPublicKeyPublisher) PublishPublicKey(ctx context.Context, userID, publicKeyBase64 string) error {
	args := m.Called(ctx, userID, publicKeyBase64)
	return args.Error(0)
}

// MockIdentityUseCase is a mock implementation of the identity UseCase.
type MockIdentityUseCase struct {
	mock.Mock
}

// Register mocks the Register method.
func (m *MockIdentityUseCase) Register(ctx context.Context, userID string) (*identityDomain.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

// KeyPair mocks the KeyPair method.
func (m *MockIdentityUseCase) KeyPair(ctx context.Context, userID string) (*cryptoDomain.KeyPair, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.KeyPair), args.Error(1)
}

// RepublishPublicKey mocks the RepublishPublicKey method.
func (m *MockIdentityUseCase) RepublishPublicKey(
	ctx context.Context,
	userID string,
) (*identityDomain.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}
