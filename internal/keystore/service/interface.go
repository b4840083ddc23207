// Package service provides the sealers that protect key store entries at rest.
package service

import "context"

// Sealer encrypts key material before it reaches a repository.
//
// aad is the namespaced key name. It is bound into the sealed payload so an entry copied to
// another name fails to open.
type Sealer interface {
	Seal(ctx context.Context, aad, plaintext []byte) ([]byte, error)
	Open(ctx context.Context, aad, sealed []byte) ([]byte, error)
}
