package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

const (
	sealedEnvelopeVersion = 1
	kdfArgon2id           = "argon2id"
	saltSize              = 16
)

// KDFParams are the argon2id parameters used to derive a sealing key from a passphrase.
type KDFParams struct {
	Time     uint32 `json:"kdf_time"`
	MemoryKB uint32 `json:"kdf_memory_kb"`
	Threads  uint8  `json:"kdf_threads"`
}

// DefaultKDFParams is the derivation policy for passphrase sealing.
var DefaultKDFParams = KDFParams{Time: 2, MemoryKB: 64 * 1024, Threads: 1}

type sealedEnvelope struct {
	Version uint32 `json:"version"`
	KDF     string `json:"kdf"`
	KDFParams
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// PassphraseSealer seals entries under a key derived from a user passphrase with argon2id
// and XChaCha20-Poly1305. Each entry gets its own salt and nonce.
//
// Entries whose recorded parameters differ from the sealer's policy are rejected on Open,
// so a tampered store cannot force a cheaper derivation.
type PassphraseSealer struct {
	passphrase []byte
	params     KDFParams
}

// NewPassphraseSealer creates a PassphraseSealer with DefaultKDFParams.
func NewPassphraseSealer(passphrase string) (*PassphraseSealer, error) {
	return newPassphraseSealer(passphrase, DefaultKDFParams)
}

func newPassphraseSealer(passphrase string, params KDFParams) (*PassphraseSealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty passphrase", keystoreDomain.ErrStorageUnavailable)
	}
	return &PassphraseSealer{passphrase: []byte(passphrase), params: params}, nil
}

// Seal encrypts plaintext with aad as associated data.
func (s *PassphraseSealer) Seal(_ context.Context, aad, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}

	key := s.deriveKey(salt, s.params)
	defer cryptoDomain.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}

	return json.Marshal(sealedEnvelope{
		Version:    sealedEnvelopeVersion,
		KDF:        kdfArgon2id,
		KDFParams:  s.params,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, aad),
	})
}

// Open decrypts an entry produced by Seal with the same passphrase and aad.
func (s *PassphraseSealer) Open(_ context.Context, aad, sealed []byte) ([]byte, error) {
	var env sealedEnvelope
	if err := json.Unmarshal(sealed, &env); err != nil {
		return nil, keystoreDomain.ErrUnsealFailure
	}
	if env.Version != sealedEnvelopeVersion || env.KDF != kdfArgon2id || len(env.Salt) != saltSize {
		return nil, keystoreDomain.ErrUnsealFailure
	}
	if env.KDFParams != s.params {
		return nil, keystoreDomain.ErrKDFPolicy
	}
	if len(env.Nonce) != chacha20poly1305.NonceSizeX {
		return nil, keystoreDomain.ErrUnsealFailure
	}

	key := s.deriveKey(env.Salt, env.KDFParams)
	defer cryptoDomain.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, aad)
	if err != nil {
		return nil, keystoreDomain.ErrUnsealFailure
	}
	return plaintext, nil
}

func (s *PassphraseSealer) deriveKey(salt []byte, p KDFParams) []byte {
	return argon2.IDKey(s.passphrase, salt, p.Time, p.MemoryKB, p.Threads, chacha20poly1305.KeySize)
}
