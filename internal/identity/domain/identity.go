// Package domain defines the per-user asymmetric identity.
package domain

import (
	"github.com/allisson/familykeys/internal/errors"
)

// ErrIdentityExists is returned when a private key is already sealed for the user.
// A second registration would orphan every envelope wrapped for the first key.
var ErrIdentityExists = errors.Wrap(errors.ErrConflict, "identity already registered on this device")

// Identity is the public side of a registered user.
type Identity struct {
	UserID    string
	PublicKey string
}
