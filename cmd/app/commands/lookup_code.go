package commands

import (
	"fmt"
	"io"

	inviteService "github.com/allisson/familykeys/internal/invite/service"
)

// RunLookupCode prints count freshly generated lookup codes.
func RunLookupCode(generator inviteService.LookupCodeGenerator, writer io.Writer, count int, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if count < 1 || count > 100 {
		return fmt.Errorf("invalid count: %d (must be between 1 and 100)", count)
	}

	codes := make([]string, 0, count)
	for range count {
		code, err := generator.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate lookup code: %w", err)
		}
		codes = append(codes, code)
	}

	if format == "json" {
		return writeJSON(writer, map[string][]string{"lookup_codes": codes})
	}
	for _, code := range codes {
		_, _ = fmt.Fprintln(writer, code)
	}
	return nil
}
