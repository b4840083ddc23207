package domain

import (
	"github.com/allisson/familykeys/internal/errors"
)

var (
	// ErrMalformedInviteCode indicates a code that does not match PREFIX-CODE[:KEY].
	// Raised before any network call.
	ErrMalformedInviteCode = errors.Wrap(errors.ErrInvalidInput, "malformed invite code")

	// ErrFamilyKeyConflict indicates a different family key is already sealed for the family.
	ErrFamilyKeyConflict = errors.Wrap(errors.ErrConflict, "a different family key is already stored")

	// ErrInviteExpired indicates the encrypted invite is past its expiry.
	ErrInviteExpired = errors.Wrap(errors.ErrForbidden, "invite expired")

	// ErrInviteConsumed indicates the encrypted invite was already accepted.
	ErrInviteConsumed = errors.Wrap(errors.ErrConflict, "invite already accepted")

	// ErrRecipientKeyNotFound indicates the invitee has not published a public key.
	ErrRecipientKeyNotFound = errors.Wrap(errors.ErrNotFound, "recipient public key not found")

	// ErrFamilyNotFound indicates the server does not know the lookup code or family.
	ErrFamilyNotFound = errors.Wrap(errors.ErrNotFound, "family not found")

	// ErrKeyLeak indicates an attempt to send a key segment to the server.
	ErrKeyLeak = errors.Wrap(errors.ErrForbidden, "invite key segment must not leave the device")
)
