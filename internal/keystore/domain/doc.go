// Package domain defines the device-local key store: namespaced key names, the key
// material values held under them and the sealed entries persisted by repositories.
//
// Two kinds of material live in the store:
//   - familyKey:<familyID>  the shared symmetric key of one family
//   - privateKey:<userID>   the X25519 private key of one local identity
//
// Entries never leave the device and are sealed before they reach a repository. The store
// survives logout on purpose: only an explicit wipe removes key material.
package domain
