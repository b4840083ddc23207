// Package domain defines invite codes, encrypted invites and family membership results.
package domain

import "time"

const (
	// LookupPrefix starts every lookup code.
	LookupPrefix = "FAMILY-"

	// LookupBodyLength is the number of random symbols after the prefix. Each symbol carries
	// log2(32) = 5 bits, so a code holds 16 x 5 = 80 bits.
	LookupBodyLength = 16

	// LookupAlphabet excludes the ambiguous glyphs 0/O and 1/I.
	LookupAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// KeySeparator splits the lookup code from the client-only key segment.
	KeySeparator = ":"

	// DefaultInviteTTL is the lifetime of an encrypted invite.
	DefaultInviteTTL = 7 * 24 * time.Hour

	// MaxFamilyNameLength bounds family names accepted by CreateFamily.
	MaxFamilyNameLength = 100
)
