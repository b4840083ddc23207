package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one sealed record as persisted by a Repository.
//
// Key is the namespaced name in string form. Sealed is opaque to repositories and only the
// Sealer that produced it can open it.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Sealed    []byte    `json:"sealed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
