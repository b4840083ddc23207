package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	recoveryDomain "github.com/allisson/familykeys/internal/recovery/domain"
)

// RecoveryChecker runs the key-loss check for a user and an optional family.
type RecoveryChecker interface {
	Check(ctx context.Context, userID, familyID string) (*recoveryDomain.Report, error)
}

type keystoreStatus struct {
	State     recoveryDomain.State `json:"state"`
	Readable  bool                 `json:"history_readable"`
	Missing   []string             `json:"missing"`
	Stored    []string             `json:"stored"`
	CheckedAt time.Time            `json:"checked_at"`
}

// RunKeystoreStatus reports which keys this device holds for userID and familyID. Only
// entry names are printed; key material is never read into the output.
func RunKeystoreStatus(
	ctx context.Context,
	checker RecoveryChecker,
	keystore keystoreUseCase.UseCase,
	writer io.Writer,
	userID, familyID, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	report, err := checker.Check(ctx, userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to check key store: %w", err)
	}
	keys, err := keystore.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list key store entries: %w", err)
	}

	status := keystoreStatus{
		State:     report.State,
		Readable:  report.HistoryReadable(),
		Missing:   make([]string, 0, len(report.Missing)),
		Stored:    make([]string, 0, len(keys)),
		CheckedAt: report.CheckedAt,
	}
	for _, key := range report.Missing {
		status.Missing = append(status.Missing, key.String())
	}
	for _, key := range keys {
		status.Stored = append(status.Stored, key.String())
	}
	sort.Strings(status.Stored)

	if format == "json" {
		return writeJSON(writer, status)
	}

	_, _ = fmt.Fprintf(writer, "State: %s\n", status.State)
	_, _ = fmt.Fprintf(writer, "History readable: %t\n", status.Readable)
	if len(status.Missing) > 0 {
		_, _ = fmt.Fprintln(writer, "Missing:")
		for _, name := range status.Missing {
			_, _ = fmt.Fprintf(writer, "  %s\n", name)
		}
	}
	_, _ = fmt.Fprintf(writer, "Stored entries: %d\n", len(status.Stored))
	for _, name := range status.Stored {
		_, _ = fmt.Fprintf(writer, "  %s\n", name)
	}
	return nil
}
