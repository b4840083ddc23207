// Package usecase encrypts and decrypts family channel messages with the family key held on
// this device.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	messagingDomain "github.com/allisson/familykeys/internal/messaging/domain"
)

// UseCase is the message cipher used by family channels.
type UseCase interface {
	// Encrypt seals plaintext under the family key. Returns ErrKeyMissing when the key is
	// not on this device; plaintext is never sent in its place.
	Encrypt(ctx context.Context, familyID, plaintext string) (cryptoDomain.CiphertextBlob, error)

	// DecryptBatch decrypts messages in order. A missing family key marks every message
	// StatusDeferred and is not an error. Failed authentication marks a single message
	// StatusUndecryptable without affecting the others.
	DecryptBatch(
		ctx context.Context,
		familyID string,
		messages []messagingDomain.Message,
	) ([]messagingDomain.DecryptedMessage, error)

	// AwaitAndDecrypt waits until the family key is stored and then decrypts messages.
	AwaitAndDecrypt(
		ctx context.Context,
		familyID string,
		messages []messagingDomain.Message,
	) ([]messagingDomain.DecryptedMessage, error)
}
