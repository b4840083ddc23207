// Package usecase implements family creation, invite redemption and the encrypted invite flow.
package usecase

import (
	"context"

	"github.com/google/uuid"

	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
)

// PublicKeyDirectory looks up published public keys by e-mail.
type PublicKeyDirectory interface {
	FetchPublicKey(ctx context.Context, email string) (publicKeyBase64 string, found bool, err error)
}

// FamilyGateway is the server side of family membership. It only ever sees lookup codes.
type FamilyGateway interface {
	CreateFamily(ctx context.Context, name string) (*inviteDomain.Family, error)
	JoinFamily(ctx context.Context, lookupCode string) (*inviteDomain.Family, error)
}

// InviteRelay stores and delivers encrypted invites as opaque records.
type InviteRelay interface {
	CreateEncryptedInvite(ctx context.Context, invite *inviteDomain.EncryptedInvite) error
	// FetchEncryptedInvite returns cryptoDomain.ErrEnvelopeNotFound when nothing was delivered.
	FetchEncryptedInvite(ctx context.Context, inviteID uuid.UUID) (*inviteDomain.EncryptedInvite, error)
	AcceptEncryptedInvite(ctx context.Context, inviteID uuid.UUID) (*inviteDomain.Family, error)
}

// FamilyUseCase creates families and redeems shareable invite codes.
type FamilyUseCase interface {
	// CreateFamily generates and seals a new family key and returns the shareable code.
	CreateFamily(ctx context.Context, name string) (*inviteDomain.FamilyInvite, error)

	// ShareInvite re-mints the shareable code for lookupCode from the sealed family key.
	ShareInvite(ctx context.Context, familyID, lookupCode string) (*inviteDomain.FamilyInvite, error)

	// RedeemInvite joins with the lookup portion only, then seals the key segment locally.
	RedeemInvite(ctx context.Context, fullCode string) (*inviteDomain.JoinResult, error)
}

// InviteUseCase carries the family key to registered users through the relay.
type InviteUseCase interface {
	// InviteRegisteredUser wraps the family key for the invitee's public key and relays it.
	InviteRegisteredUser(
		ctx context.Context,
		senderUserID, familyID, inviteeEmail string,
	) (*inviteDomain.EncryptedInvite, error)

	// AcceptEncryptedInvite unwraps the relayed family key with userID's private key and seals it.
	AcceptEncryptedInvite(ctx context.Context, userID string, inviteID uuid.UUID) (*inviteDomain.JoinResult, error)
}
