package domain

// Algorithm represents the AEAD algorithm used for symmetric content encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// so a wrong key or a tampered ciphertext is always detected on decryption.
//
// Algorithm selection guidelines:
//   - Use XChaCha20 (default) when nonces are random and many messages share one key
//   - Use AESGCM on devices with AES hardware acceleration
//   - Use ChaCha20 for interoperability with 12-byte nonce peers
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	ChaCha20 Algorithm = "chacha20-poly1305"

	// XChaCha20 represents the XChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// The 24-byte nonce makes random nonces safe for the lifetime of a family key, which
	// is shared by every member device and never rotated.
	XChaCha20 Algorithm = "xchacha20-poly1305"
)

// KeySize is the size in bytes of every symmetric key handled by this module.
const KeySize = 32

// Wire identifiers for the algorithm byte carried in a ciphertext blob header.
const (
	algorithmIDAESGCM    byte = 1
	algorithmIDChaCha20  byte = 2
	algorithmIDXChaCha20 byte = 3
)

// ID returns the wire identifier written into ciphertext blob headers.
// Returns 0 for unknown algorithms.
func (a Algorithm) ID() byte {
	switch a {
	case AESGCM:
		return algorithmIDAESGCM
	case ChaCha20:
		return algorithmIDChaCha20
	case XChaCha20:
		return algorithmIDXChaCha20
	default:
		return 0
	}
}

// AlgorithmFromID maps a blob header identifier back to an Algorithm.
func AlgorithmFromID(id byte) (Algorithm, bool) {
	switch id {
	case algorithmIDAESGCM:
		return AESGCM, true
	case algorithmIDChaCha20:
		return ChaCha20, true
	case algorithmIDXChaCha20:
		return XChaCha20, true
	default:
		return "", false
	}
}

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20, XChaCha20:
		return Algorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
