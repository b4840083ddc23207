// Package domain defines channel messages and their decryption outcomes.
package domain

import (
	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

// UndecryptablePlaceholder is rendered in place of a message that failed authentication.
const UndecryptablePlaceholder = "[this message could not be decrypted]"

// Status is the outcome of decrypting one message.
type Status string

const (
	// StatusDecrypted carries the plaintext.
	StatusDecrypted Status = "decrypted"
	// StatusUndecryptable means tampering or a wrong key; not retryable.
	StatusUndecryptable Status = "undecryptable"
	// StatusDeferred means the family key is not on this device yet; retry when it arrives.
	StatusDeferred Status = "deferred"
)

// Message is an encrypted channel message as fetched from the server.
type Message struct {
	ID         string
	Ciphertext cryptoDomain.CiphertextBlob
}

// DecryptedMessage is the render-ready result for one Message. Text is the plaintext for
// StatusDecrypted, the placeholder for StatusUndecryptable and empty for StatusDeferred.
type DecryptedMessage struct {
	ID     string
	Status Status
	Text   string
}
