// Package domain defines the key-loss recovery states.
package domain

import (
	"time"

	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// State is the recovery flow state of the current session.
type State string

const (
	StateUnknown     State = "unknown"
	StateChecking    State = "checking"
	StateKeyPresent  State = "key_present"
	StateKeyMissing  State = "key_missing"
	StateUnavailable State = "unavailable"
)

// Report is the outcome of one check.
type Report struct {
	State     State
	Missing   []keystoreDomain.NamespacedKey
	CheckedAt time.Time
	// NeedsNotice is true while keys are missing and the blocking notice was not acknowledged.
	NeedsNotice bool
}

// HistoryReadable reports whether encrypted history can be decrypted on this device.
func (r *Report) HistoryReadable() bool {
	return r.State == StateKeyPresent
}
