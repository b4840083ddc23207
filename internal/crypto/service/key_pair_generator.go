package service

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

// BoxKeyPairGenerator generates X25519 keypairs suitable for nacl/box.
type BoxKeyPairGenerator struct {
	rand io.Reader
}

// NewKeyPairGenerator creates a generator backed by crypto/rand.
func NewKeyPairGenerator() *BoxKeyPairGenerator {
	return &BoxKeyPairGenerator{rand: rand.Reader}
}

// Generate creates a new keypair. An RNG failure is returned as ErrKeyGeneration.
func (g *BoxKeyPairGenerator) Generate() (*cryptoDomain.KeyPair, error) {
	pub, priv, err := box.GenerateKey(g.rand)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}
	defer cryptoDomain.Zero(priv[:])

	return &cryptoDomain.KeyPair{PublicKey: *pub, PrivateKey: *priv}, nil
}
