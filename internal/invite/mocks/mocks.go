// Package mocks provides mock implementations of the invite ports and use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
)

// MockPublicKeyDirectory is a mock implementation of PublicKeyDirectory.
type MockPublicKeyDirectory struct {
	mock.Mock
}

// FetchPublicKey mocks the FetchPublicKey method.
func (m *MockPublicKeyDirectory) FetchPublicKey(ctx context.Context, email string) (string, bool, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockFamilyGateway is a mock implementation of FamilyGateway.
type MockFamilyGateway struct {
	mock.Mock
}

// CreateFamily mocks the CreateFamily method.
func (m *MockFamilyGateway) CreateFamily(ctx context.Context, name string) (*inviteDomain.Family, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.Family), args.Error(1)
}

// JoinFamily mocks the JoinFamily method.
func (m *MockFamilyGateway) JoinFamily(ctx context.Context, lookupCode string) (*inviteDomain.Family, error) {
	args := m.Called(ctx, lookupCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.Family), args.Error(1)
}

// MockInviteRelay is a mock implementation of InviteRelay.
type MockInviteRelay struct {
	mock.Mock
}

// CreateEncryptedInvite mocks the CreateEncryptedInvite method.
func (m *MockInviteRelay) CreateEncryptedInvite(ctx context.Context, invite *inviteDomain.EncryptedInvite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

// FetchEncryptedInvite mocks the FetchEncryptedInvite method.
func (m *MockInviteRelay) FetchEncryptedInvite(
	ctx context.Context,
	inviteID uuid.UUID,
) (*inviteDomain.EncryptedInvite, error) {
	args := m.Called(ctx, inviteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.EncryptedInvite), args.Error(1)
}

// AcceptEncryptedInvite mocks the AcceptEncryptedInvite method.
func (m *MockInviteRelay) AcceptEncryptedInvite(ctx context.Context, inviteID uuid.UUID) (*inviteDomain.Family, error) {
	args := m.Called(ctx, inviteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.Family), args.Error(1)
}

// MockFamilyUseCase is a mock implementation of FamilyUseCase.
type MockFamilyUseCase struct {
	mock.Mock
}

// CreateFamily mocks the CreateFamily method.
func (m *MockFamilyUseCase) CreateFamily(ctx context.Context, name string) (*inviteDomain.FamilyInvite, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.FamilyInvite), args.Error(1)
}

// ShareInvite mocks the ShareInvite method.
func (m *MockFamilyUseCase) ShareInvite(
	ctx context.Context,
	familyID, lookupCode string,
) (*inviteDomain.FamilyInvite, error) {
	args := m.Called(ctx, familyID, lookupCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.FamilyInvite), args.Error(1)
}

// RedeemInvite mocks the RedeemInvite method.
func (m *MockFamilyUseCase) RedeemInvite(ctx context.Context, fullCode string) (*inviteDomain.JoinResult, error) {
	args := m.Called(ctx, fullCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.JoinResult), args.Error(1)
}

// MockInviteUseCase is a mock implementation of InviteUseCase.
type MockInviteUseCase struct {
	mock.Mock
}

// InviteRegisteredUser mocks the InviteRegisteredUser method.
func (m *MockInviteUseCase) InviteRegisteredUser(
	ctx context.Context,
	senderUserID, familyID, inviteeEmail string,
) (*inviteDomain.EncryptedInvite, error) {
	args := m.Called(ctx, senderUserID, familyID, inviteeEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.EncryptedInvite), args.Error(1)
}

// AcceptEncryptedInvite mocks the AcceptEncryptedInvite method.
func (m *MockInviteUseCase) AcceptEncryptedInvite(
	ctx context.Context,
	userID string,
	inviteID uuid.UUID,
) (*inviteDomain.JoinResult, error) {
	args := m.Called(ctx, userID, inviteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inviteDomain.JoinResult), args.Error(1)
}
