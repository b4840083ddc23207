package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
)

// RunWipeKeystore deletes every entry of the device key store. Without confirm it only
// reports how many entries would be removed.
func RunWipeKeystore(
	ctx context.Context,
	keystore keystoreUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	confirm bool,
) error {
	keys, err := keystore.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list key store entries: %w", err)
	}

	if !confirm {
		_, _ = fmt.Fprintf(writer, "%d entries would be removed. Pass --yes to wipe the key store.\n", len(keys))
		return fmt.Errorf("wipe not confirmed")
	}

	if err := keystore.Wipe(ctx); err != nil {
		return fmt.Errorf("failed to wipe key store: %w", err)
	}

	logger.Warn("key store wiped", slog.Int("entries", len(keys)))
	_, _ = fmt.Fprintf(writer, "Removed %d entries.\n", len(keys))
	return nil
}
