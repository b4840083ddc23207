package validation

import (
	"encoding/base64"
	"strings"

	validation "github.com/jellydator/validation"
)

// Base64 accepts only canonical standard base64: zero padding bits and no line breaks.
// Empty strings pass so Required decides presence.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if strings.ContainsAny(s, "\r\n") {
		return validation.NewError("validation_base64", "must be canonical base64 without line breaks")
	}
	if _, err := base64.StdEncoding.Strict().DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be canonical base64-encoded data")
	}
	return nil
})
