package domain

import (
	"encoding/base64"
	"strings"
)

// CiphertextBlob is the transport form of an encrypted message body.
//
// Layout before base64 (standard encoding):
//
//	version(1) || algorithm(1) || nonce || ciphertext+tag
//
// The two header bytes are authenticated as associated data.
type CiphertextBlob string

// BlobVersion is the current ciphertext blob layout version.
const BlobVersion byte = 1

// BlobHeaderSize is the number of header bytes preceding the nonce.
const BlobHeaderSize = 2

// DecodeCanonical decodes standard base64 and accepts only the exact encoding EncodeToString
// would produce: padding bits must be zero and CR/LF are refused.
func DecodeCanonical(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, ErrNonCanonicalEncoding
	}
	data, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, ErrNonCanonicalEncoding
	}
	return data, nil
}
