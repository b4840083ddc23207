package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/familykeys/internal/database"
	apperrors "github.com/allisson/familykeys/internal/errors"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// MySQLRepository stores entries in the keystore_entries table.
//
// Schema (migrations/mysql):
//   - id: BINARY(16) PRIMARY KEY
//   - name: VARCHAR(255) UNIQUE, the namespaced key
//   - sealed: BLOB
//   - created_at, updated_at: DATETIME(6)
//
// All methods honour a transaction carried in ctx via database.GetTx.
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository creates a new MySQL key store repository.
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Save upserts the entry by name, keeping the original id and created_at.
func (m *MySQLRepository) Save(ctx context.Context, entry *keystoreDomain.Entry) error {
	querier := database.GetTx(ctx, m.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entry id")
	}

	query := `INSERT INTO keystore_entries (id, name, sealed, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE sealed = VALUES(sealed), updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		entry.Key,
		entry.Sealed,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return unavailable("save entry", err)
	}
	return nil
}

// Get returns the entry stored under key. A missing table reads as ErrEntryNotFound.
func (m *MySQLRepository) Get(ctx context.Context, key string) (*keystoreDomain.Entry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, sealed, created_at, updated_at FROM keystore_entries WHERE name = ?`

	var entry keystoreDomain.Entry
	var id []byte
	err := querier.QueryRowContext(ctx, query, key).Scan(
		&id,
		&entry.Key,
		&entry.Sealed,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMissingTable(err) {
			return nil, keystoreDomain.ErrEntryNotFound
		}
		return nil, unavailable("get entry", err)
	}

	if err := entry.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal entry id")
	}
	return &entry, nil
}

// Delete removes the entry stored under key.
func (m *MySQLRepository) Delete(ctx context.Context, key string) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM keystore_entries WHERE name = ?`, key)
	if err != nil && !isMissingTable(err) {
		return unavailable("delete entry", err)
	}
	return nil
}

// DeleteAll removes every entry.
func (m *MySQLRepository) DeleteAll(ctx context.Context) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM keystore_entries`)
	if err != nil && !isMissingTable(err) {
		return unavailable("delete all entries", err)
	}
	return nil
}

// ListKeys returns the stored names in lexical order.
func (m *MySQLRepository) ListKeys(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, `SELECT name FROM keystore_entries ORDER BY name`)
	if err != nil {
		if isMissingTable(err) {
			return []string{}, nil
		}
		return nil, unavailable("list entries", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanNames(rows)
}
