package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

// InviteCode is a parsed invite string. RawKey is empty for lookup-only codes.
type InviteCode struct {
	LookupCode string
	RawKey     string
}

// HasKey reports whether the code carries a family key segment.
func (c *InviteCode) HasKey() bool {
	return c.RawKey != ""
}

// String returns the lookup code only. The key segment is never formatted.
func (c *InviteCode) String() string {
	return c.LookupCode
}

// Family is the server's view of a family.
type Family struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LookupCode string `json:"lookup_code,omitempty"`
}

// FamilyInvite is the result of creating or re-sharing a family: the full code is for
// the clipboard, QR or link fragment only.
type FamilyInvite struct {
	FamilyID   string
	FamilyName string
	LookupCode string
	Code       string
}

// JoinResult describes a successful redemption. KeyImported is false for lookup-only
// codes; the recovery flow then reports the family key as missing.
type JoinResult struct {
	FamilyID    string
	FamilyName  string
	KeyImported bool
}

// EncryptedInvite is the server-relayed record carrying a family key wrapped for one
// registered user.
type EncryptedInvite struct {
	ID              uuid.UUID                       `json:"id"`
	FamilyID        string                          `json:"family_id"`
	InviteeEmail    string                          `json:"invitee_email"`
	SenderUserID    string                          `json:"sender_user_id"`
	SenderPublicKey string                          `json:"sender_public_key"`
	Envelope        cryptoDomain.WrappedKeyEnvelope `json:"envelope"`
	LookupCode      string                          `json:"lookup_code"`
	CreatedAt       time.Time                       `json:"created_at"`
	ExpiresAt       time.Time                       `json:"expires_at"`
	AcceptedAt      *time.Time                      `json:"accepted_at,omitempty"`
}

// IsExpired reports whether the invite has expired at now.
func (e *EncryptedInvite) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// IsConsumed reports whether the invite was already accepted.
func (e *EncryptedInvite) IsConsumed() bool {
	return e.AcceptedAt != nil
}
