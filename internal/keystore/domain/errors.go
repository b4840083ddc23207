package domain

import (
	"github.com/allisson/familykeys/internal/errors"
)

var (
	// ErrStorageUnavailable indicates the persistence engine cannot be reached or used.
	//
	// Fatal to end-to-end encryption features, but callers must keep unrelated features working.
	ErrStorageUnavailable = errors.Wrap(errors.ErrUnavailable, "key storage unavailable")

	// ErrEntryNotFound indicates no entry is stored under the requested name.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "key store entry not found")

	// ErrInvalidNamespacedKey indicates a key name is not <kind>:<id> with a known kind.
	ErrInvalidNamespacedKey = errors.Wrap(errors.ErrInvalidInput, "invalid namespaced key")

	// ErrKindMismatch indicates material of one kind was stored under a name of another.
	ErrKindMismatch = errors.Wrap(errors.ErrInvalidInput, "key material kind mismatch")

	// ErrExportRefused is returned when key material is asked to serialize itself.
	ErrExportRefused = errors.Wrap(errors.ErrForbidden, "key material cannot be exported")

	// ErrUnsealFailure indicates a stored entry could not be opened with the device sealer.
	//
	// Usually the device key or passphrase changed, or the entry was moved to another name.
	ErrUnsealFailure = errors.Wrap(errors.ErrInvalidInput, "failed to unseal key material")

	// ErrKDFPolicy indicates a sealed entry was produced with weaker derivation parameters
	// than the configured policy.
	ErrKDFPolicy = errors.Wrap(errors.ErrInvalidInput, "key derivation parameters rejected")
)
