package service

import (
	"encoding/base64"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
)

// ContentCipherService implements ContentCipher on top of an AEADManager.
//
// Blobs are self-describing: the algorithm byte in the header selects the cipher on
// decryption, so changing the configured algorithm never strands old messages.
type ContentCipherService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewContentCipher creates a ContentCipherService that encrypts with alg.
func NewContentCipher(aeadManager AEADManager, alg cryptoDomain.Algorithm) *ContentCipherService {
	return &ContentCipherService{aeadManager: aeadManager, algorithm: alg}
}

// Encrypt seals plaintext under key and returns the base64 blob.
func (c *ContentCipherService) Encrypt(
	plaintext string,
	key *cryptoDomain.FamilyKey,
) (cryptoDomain.CiphertextBlob, error) {
	if key == nil {
		return "", cryptoDomain.ErrKeyMissing
	}

	header := []byte{cryptoDomain.BlobVersion, c.algorithm.ID()}

	raw := key.Bytes()
	defer cryptoDomain.Zero(raw)

	aead, err := c.aeadManager.CreateCipher(raw, c.algorithm)
	if err != nil {
		return "", err
	}

	sealed, nonce, err := aead.Encrypt([]byte(plaintext), header)
	if err != nil {
		return "", err
	}

	blob := make([]byte, 0, len(header)+len(nonce)+len(sealed))
	blob = append(blob, header...)
	blob = append(blob, nonce...)
	blob = append(blob, sealed...)

	return cryptoDomain.CiphertextBlob(base64.StdEncoding.EncodeToString(blob)), nil
}

// Decrypt opens blob under key.
//
// Decoding errors, unknown versions or algorithms, truncation, a wrong key and tampering
// all return ErrAuthenticationFailure so no detail about the cause leaks to the caller.
func (c *ContentCipherService) Decrypt(
	blob cryptoDomain.CiphertextBlob,
	key *cryptoDomain.FamilyKey,
) (string, error) {
	if key == nil {
		return "", cryptoDomain.ErrKeyMissing
	}

	data, err := cryptoDomain.DecodeCanonical(string(blob))
	if err != nil || len(data) < cryptoDomain.BlobHeaderSize {
		return "", cryptoDomain.ErrAuthenticationFailure
	}

	header := data[:cryptoDomain.BlobHeaderSize]
	if header[0] != cryptoDomain.BlobVersion {
		return "", cryptoDomain.ErrAuthenticationFailure
	}
	alg, ok := cryptoDomain.AlgorithmFromID(header[1])
	if !ok {
		return "", cryptoDomain.ErrAuthenticationFailure
	}

	raw := key.Bytes()
	defer cryptoDomain.Zero(raw)

	aead, err := c.aeadManager.CreateCipher(raw, alg)
	if err != nil {
		return "", cryptoDomain.ErrAuthenticationFailure
	}

	body := data[cryptoDomain.BlobHeaderSize:]
	if len(body) < aead.NonceSize() {
		return "", cryptoDomain.ErrAuthenticationFailure
	}

	plaintext, err := aead.Decrypt(body[aead.NonceSize():], body[:aead.NonceSize()], header)
	if err != nil {
		return "", cryptoDomain.ErrAuthenticationFailure
	}

	return string(plaintext), nil
}
