package service

import (
	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

var aeadConstructors = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM:    func(key []byte) (AEAD, error) { return NewAESGCM(key) },
	cryptoDomain.ChaCha20:  func(key []byte) (AEAD, error) { return NewChaCha20Poly1305(key) },
	cryptoDomain.XChaCha20: func(key []byte) (AEAD, error) { return NewXChaCha20Poly1305(key) },
}

// AEADManagerService creates ciphers for the algorithms a ciphertext blob may name.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize unless key is 32 bytes and
// ErrUnsupportedAlgorithm for an algorithm with no cipher.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	newCipher, ok := aeadConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	return newCipher(key)
}
