// Package mocks provides mock implementations of the key store for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// MockKeystoreUseCase is a mock implementation of the key store UseCase.
type MockKeystoreUseCase struct {
	mock.Mock
}

// Put mocks the Put method.
func (m *MockKeystoreUseCase) Put(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
	material *keystoreDomain.KeyMaterial,
) error {
	args := m.Called(ctx, key, material)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockKeystoreUseCase) Get(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
) (*keystoreDomain.KeyMaterial, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*keystoreDomain.KeyMaterial), args.Bool(1), args.Error(2)
}

// Remove mocks the Remove method.
func (m *MockKeystoreUseCase) Remove(ctx context.Context, key keystoreDomain.NamespacedKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Wipe mocks the Wipe method.
func (m *MockKeystoreUseCase) Wipe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ListKeys mocks the ListKeys method.
func (m *MockKeystoreUseCase) ListKeys(ctx context.Context) ([]keystoreDomain.NamespacedKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]keystoreDomain.NamespacedKey), args.Error(1)
}

// WithKey mocks the WithKey method. fn is not invoked.
func (m *MockKeystoreUseCase) WithKey(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
	fn func(material *keystoreDomain.KeyMaterial) error,
) error {
	args := m.Called(ctx, key, fn)
	return args.Error(0)
}

// Await mocks the Await method.
func (m *MockKeystoreUseCase) Await(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
) (*keystoreDomain.KeyMaterial, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keystoreDomain.KeyMaterial), args.Error(1)
}

// PutFamilyKey mocks the PutFamilyKey method.
func (m *MockKeystoreUseCase) PutFamilyKey(
	ctx context.Context,
	familyID string,
	familyKey *cryptoDomain.FamilyKey,
) error {
	args := m.Called(ctx, familyID, familyKey)
	return args.Error(0)
}

// GetFamilyKey mocks the GetFamilyKey method.
func (m *MockKeystoreUseCase) GetFamilyKey(
	ctx context.Context,
	familyID string,
) (*cryptoDomain.FamilyKey, bool, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*cryptoDomain.FamilyKey), args.Bool(1), args.Error(2)
}

// PutPrivateKey mocks the PutPrivateKey method.
func (m *MockKeystoreUseCase) PutPrivateKey(
	ctx context.Context,
	userID string,
	keyPair *cryptoDomain.KeyPair,
) error {
	args := m.Called(ctx, userID, keyPair)
	return args.Error(0)
}

// GetPrivateKey mocks the GetPrivateKey method.
func (m *MockKeystoreUseCase) GetPrivateKey(
	ctx context.Context,
	userID string,
) (*cryptoDomain.KeyPair, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*cryptoDomain.KeyPair), args.Bool(1), args.Error(2)
}
