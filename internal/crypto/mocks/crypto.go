// Package mocks provides mock implementations of the crypto services for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

// MockKeyPairGenerator is a mock implementation of KeyPairGenerator.
type MockKeyPairGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method.
func (m *MockKeyPairGenerator) Generate() (*cryptoDomain.KeyPair, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.KeyPair), args.Error(1)
}

// MockKeyWrapper is a mock implementation of KeyWrapper.
type MockKeyWrapper struct {
	mock.Mock
}

// Wrap mocks the Wrap method.
func (m *MockKeyWrapper) Wrap(
	familyKey *cryptoDomain.FamilyKey,
	recipientPublicKey, senderPrivateKey [cryptoDomain.KeySize]byte,
) (*cryptoDomain.WrappedKeyEnvelope, error) {
	args := m.Called(familyKey, recipientPublicKey, senderPrivateKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.WrappedKeyEnvelope), args.Error(1)
}

// Unwrap mocks the Unwrap method.
func (m *MockKeyWrapper) Unwrap(
	envelope *cryptoDomain.WrappedKeyEnvelope,
	senderPublicKey, recipientPrivateKey [cryptoDomain.KeySize]byte,
) (*cryptoDomain.FamilyKey, error) {
	args := m.Called(envelope, senderPublicKey, recipientPrivateKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.FamilyKey), args.Error(1)
}

// MockKMSService is a mock implementation of service.KMSService.
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

// MockKMSKeeper is a mock implementation of domain.KMSKeeper.
type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}
