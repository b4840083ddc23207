package service

import (
	"context"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// KMSSealer seals entries with a gocloud.dev secrets keeper.
//
// The keeper is either a device-local base64key:// key or a managed KMS key. Keepers do not
// take associated data, so the namespaced name travels inside the encrypted payload as
// len(aad)(2) || aad || plaintext and is compared on Open.
type KMSSealer struct {
	keeper cryptoDomain.KMSKeeper
}

// NewKMSSealer creates a KMSSealer. The caller owns the keeper and closes it.
func NewKMSSealer(keeper cryptoDomain.KMSKeeper) *KMSSealer {
	return &KMSSealer{keeper: keeper}
}

// Seal encrypts plaintext bound to aad.
func (s *KMSSealer) Seal(ctx context.Context, aad, plaintext []byte) ([]byte, error) {
	if len(aad) > 0xFFFF {
		return nil, fmt.Errorf("associated data too long: %d bytes", len(aad))
	}

	payload := make([]byte, 2+len(aad)+len(plaintext))
	binary.BigEndian.PutUint16(payload, uint16(len(aad)))
	copy(payload[2:], aad)
	copy(payload[2+len(aad):], plaintext)
	defer cryptoDomain.Zero(payload)

	sealed, err := s.keeper.Encrypt(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", keystoreDomain.ErrStorageUnavailable, err)
	}
	return sealed, nil
}

// Open decrypts sealed and checks it was bound to aad.
func (s *KMSSealer) Open(ctx context.Context, aad, sealed []byte) ([]byte, error) {
	payload, err := s.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, keystoreDomain.ErrUnsealFailure
	}
	defer cryptoDomain.Zero(payload)

	if len(payload) < 2 {
		return nil, keystoreDomain.ErrUnsealFailure
	}
	n := int(binary.BigEndian.Uint16(payload))
	if len(payload) < 2+n || subtle.ConstantTimeCompare(payload[2:2+n], aad) != 1 {
		return nil, keystoreDomain.ErrUnsealFailure
	}

	plaintext := make([]byte, len(payload)-2-n)
	copy(plaintext, payload[2+n:])
	return plaintext, nil
}
