package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// MockRepository is a mock implementation of the key store Repository.
type MockRepository struct {
	mock.Mock
}

// Save mocks the Save method.
func (m *MockRepository) Save(ctx context.Context, entry *keystoreDomain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockRepository) Get(ctx context.Context, key string) (*keystoreDomain.Entry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keystoreDomain.Entry), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// DeleteAll mocks the DeleteAll method.
func (m *MockRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ListKeys mocks the ListKeys method.
func (m *MockRepository) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
