package relay

import (
	validation "github.com/jellydator/validation"

	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	appValidation "github.com/allisson/familykeys/internal/validation"
)

// Route patterns shared by the client and the fake relay. Also used as metric labels.
const (
	RoutePublishPublicKey = "/v1/users/:user_id/public-key"
	RouteFetchPublicKey   = "/v1/public-keys"
	RouteCreateFamily     = "/v1/families"
	RouteJoinFamily       = "/v1/families/join"
	RouteCreateInvite     = "/v1/invites"
	RouteFetchInvite      = "/v1/invites/:id"
	RouteAcceptInvite     = "/v1/invites/:id/accept"
)

// PublicKeyRequest is the body of a public key publication.
type PublicKeyRequest struct {
	PublicKey string `json:"public_key"`
}

// Validate checks the request body.
func (r *PublicKeyRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.PublicKey, validation.Required, appValidation.Base64),
	)
	return appValidation.WrapValidationError(err)
}

// PublicKeyResponse is the directory answer for one e-mail.
type PublicKeyResponse struct {
	Email     string `json:"email"`
	PublicKey string `json:"public_key"`
}

// CreateFamilyRequest creates a family on the server.
type CreateFamilyRequest struct {
	Name string `json:"name"`
}

// Validate checks the request body.
func (r *CreateFamilyRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			appValidation.NotBlank,
			validation.RuneLength(1, inviteDomain.MaxFamilyNameLength),
		),
	)
	return appValidation.WrapValidationError(err)
}

// JoinFamilyRequest joins a family by lookup code. The code never carries a key segment.
type JoinFamilyRequest struct {
	LookupCode string `json:"lookup_code"`
}

// Validate checks the request body. A key segment is refused separately, before this runs.
func (r *JoinFamilyRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.LookupCode, validation.Required, appValidation.NoWhitespace),
	)
	return appValidation.WrapValidationError(err)
}

// FamilyResponse is the server's view of a family.
type FamilyResponse = inviteDomain.Family

// ErrorResponse is the error body returned by the relay.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidateEncryptedInvite checks the fields the relay stores. The envelope is only checked
// to be base64; the relay cannot open it.
func ValidateEncryptedInvite(invite *inviteDomain.EncryptedInvite) error {
	err := validation.ValidateStruct(invite,
		validation.Field(&invite.FamilyID, validation.Required, appValidation.Identifier),
		validation.Field(&invite.InviteeEmail, validation.Required, appValidation.Email),
		validation.Field(&invite.SenderUserID, validation.Required, appValidation.Identifier),
		validation.Field(&invite.SenderPublicKey, validation.Required, appValidation.Base64),
		validation.Field(&invite.ExpiresAt, validation.Required),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	err = validation.ValidateStruct(&invite.Envelope,
		validation.Field(&invite.Envelope.Ciphertext, validation.Required, appValidation.Base64),
		validation.Field(&invite.Envelope.Nonce, validation.Required, appValidation.Base64),
	)
	return appValidation.WrapValidationError(err)
}
