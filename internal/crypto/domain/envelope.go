package domain

// WrappedKeyEnvelope is a family key sealed for exactly one recipient.
//
// Produced with the sender's private key and the recipient's public key, so opening it
// also authenticates the sender. The server stores and relays it as an opaque blob; it
// never holds anything that could open it.
type WrappedKeyEnvelope struct {
	Ciphertext string `json:"ciphertext"` // standard base64
	Nonce      string `json:"nonce"`      // standard base64, 24 bytes decoded
}
