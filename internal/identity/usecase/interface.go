// Package usecase implements registration of per-user keypairs.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	identityDomain "github.com/allisson/familykeys/internal/identity/domain"
)

// PublicKeyPublisher sends a user's public key to the server directory.
type PublicKeyPublisher interface {
	PublishPublicKey(ctx context.Context, userID, publicKeyBase64 string) error
}

// UseCase manages the device's identity keypairs.
type UseCase interface {
	// Register generates a keypair for userID, seals the private half and publishes the public half.
	Register(ctx context.Context, userID string) (*identityDomain.Identity, error)

	// KeyPair loads the sealed keypair of userID. Returns ErrKeyMissing when absent.
	KeyPair(ctx context.Context, userID string) (*cryptoDomain.KeyPair, error)

	// RepublishPublicKey publishes the public key derived from the sealed private key again.
	RepublishPublicKey(ctx context.Context, userID string) (*identityDomain.Identity, error)
}
