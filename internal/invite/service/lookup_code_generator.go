package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
)

type lookupCodeGenerator struct {
	rand io.Reader
}

// NewLookupCodeGenerator creates a generator drawing symbols from crypto/rand.
func NewLookupCodeGenerator() LookupCodeGenerator {
	return &lookupCodeGenerator{rand: rand.Reader}
}

// Generate returns LookupPrefix followed by LookupBodyLength symbols of LookupAlphabet.
func (g *lookupCodeGenerator) Generate() (string, error) {
	body := make([]byte, inviteDomain.LookupBodyLength)
	alphabetLen := big.NewInt(int64(len(inviteDomain.LookupAlphabet)))

	for i := range body {
		n, err := rand.Int(g.rand, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
		}
		body[i] = inviteDomain.LookupAlphabet[n.Int64()]
	}

	return inviteDomain.LookupPrefix + string(body), nil
}
