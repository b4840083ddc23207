// Package testing provides a ready key store for tests of packages built on top of it.
package testing

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	"github.com/allisson/familykeys/internal/keystore/repository"
	keystoreService "github.com/allisson/familykeys/internal/keystore/service"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewDeviceKeyURI returns a base64key:// URL holding a fresh random device key.
func NewDeviceKeyURI() string {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

// NewKeystore returns an in-memory key store sealed with a random device key, and a
// function releasing the keeper.
func NewKeystore() (keystoreUseCase.UseCase, *repository.MemoryRepository, func()) {
	keeper, err := cryptoService.NewKMSService().OpenKeeper(context.Background(), NewDeviceKeyURI())
	if err != nil {
		panic(err)
	}
	repo := repository.NewMemoryRepository()
	store := keystoreUseCase.NewKeystoreUseCase(repo, keystoreService.NewKMSSealer(keeper), DiscardLogger())
	return store, repo, func() { _ = keeper.Close() }
}

// MustFamilyKey generates a family key or panics.
func MustFamilyKey() *cryptoDomain.FamilyKey {
	familyKey, err := cryptoDomain.GenerateFamilyKey()
	if err != nil {
		panic(err)
	}
	return familyKey
}

// MustKeyPair generates a keypair or panics.
func MustKeyPair() *cryptoDomain.KeyPair {
	keyPair, err := cryptoService.NewKeyPairGenerator().Generate()
	if err != nil {
		panic(err)
	}
	return keyPair
}
