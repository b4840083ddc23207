package commands

import (
	"fmt"
	"io"

	inviteService "github.com/allisson/familykeys/internal/invite/service"
)

type inviteValidation struct {
	Valid      bool   `json:"valid"`
	Canonical  bool   `json:"canonical"`
	LookupCode string `json:"lookup_code,omitempty"`
	HasKey     bool   `json:"has_key"`
	Error      string `json:"error,omitempty"`
}

// RunValidateInvite parses an invite code or share link and reports its lookup code and
// whether it carries a family key. The key segment is never printed.
func RunValidateInvite(codec inviteService.Codec, writer io.Writer, code, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result := inviteValidation{Canonical: codec.ValidateFormat(code)}
	parsed, err := codec.Split(code)
	if err != nil {
		parsed, err = codec.ParseShareLink(code)
	}
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Valid = true
		result.LookupCode = parsed.LookupCode
		result.HasKey = parsed.HasKey()
	}

	if format == "json" {
		if err := writeJSON(writer, result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			_, _ = fmt.Fprintf(writer, "Lookup code: %s\n", result.LookupCode)
			_, _ = fmt.Fprintf(writer, "Carries family key: %t\n", result.HasKey)
			_, _ = fmt.Fprintf(writer, "Canonical form: %t\n", result.Canonical)
		} else {
			_, _ = fmt.Fprintf(writer, "Invalid invite code: %s\n", result.Error)
		}
	}

	if !result.Valid {
		return fmt.Errorf("invalid invite code")
	}
	return nil
}
