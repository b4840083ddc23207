// Package service provides invite code generation and the invite code codec.
package service

import (
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
)

// LookupCodeGenerator creates fresh lookup codes.
type LookupCodeGenerator interface {
	Generate() (string, error)
}

// Codec converts between invite strings and their parts. Only ServerBound output may
// be sent over the network.
type Codec interface {
	Mint(lookupCode, rawKeyBase64 string) (string, error)
	Split(fullCode string) (*inviteDomain.InviteCode, error)
	ValidateFormat(code string) bool
	ServerBound(fullCode string) (string, error)
	ShareLink(baseURL, fullCode string) (string, error)
	ParseShareLink(link string) (*inviteDomain.InviteCode, error)
}
