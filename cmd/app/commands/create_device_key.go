package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
)

// RunCreateDeviceKey generates a random 32-byte device key for the kms sealer and prints
// it as a base64key:// URL. The URL is opened and a probe value round-tripped before it
// is printed, so a printed key is known to work. Key material is zeroed after encoding.
//
// Security: a base64key:// URL is the key itself. Keep it in the device's secret store
// and use a cloud KMS URI (gcpkms://, awskms://, azurekeyvault://, hashivault://) where one
// is available.
func RunCreateDeviceKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
) error {
	deviceKey := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(deviceKey)

	if _, err := rand.Read(deviceKey); err != nil {
		return fmt.Errorf("failed to generate device key: %w", err)
	}
	keyURI := "base64key://" + base64.URLEncoding.EncodeToString(deviceKey)

	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	probe := []byte("familykeys-device-key-probe")
	sealed, err := keeper.Encrypt(ctx, probe)
	if err != nil {
		return fmt.Errorf("failed to encrypt with device key: %w", err)
	}
	opened, err := keeper.Decrypt(ctx, sealed)
	if err != nil || !bytes.Equal(opened, probe) {
		return fmt.Errorf("device key failed the round-trip check")
	}

	_, _ = fmt.Fprintln(writer, "# Device key configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to the device's .env file or secret store")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "KEYSTORE_SEALER=\"kms\"")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", keyURI)

	logger.Info("device key created")
	return nil
}
