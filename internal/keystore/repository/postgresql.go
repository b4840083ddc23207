package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/familykeys/internal/database"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

// PostgreSQLRepository stores entries in the keystore_entries table.
//
// Schema (migrations/postgresql):
//   - id: UUID PRIMARY KEY
//   - name: VARCHAR(255) UNIQUE, the namespaced key
//   - sealed: BYTEA
//   - created_at, updated_at: TIMESTAMPTZ
//
// All methods honour a transaction carried in ctx via database.GetTx.
type PostgreSQLRepository struct {
	db *sql.DB
}

// NewPostgreSQLRepository creates a new PostgreSQL key store repository.
func NewPostgreSQLRepository(db *sql.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{db: db}
}

// Save upserts the entry by name, keeping the original id and created_at.
func (p *PostgreSQLRepository) Save(ctx context.Context, entry *keystoreDomain.Entry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO keystore_entries (id, name, sealed, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (name) DO UPDATE SET sealed = EXCLUDED.sealed, updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
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
func (p *PostgreSQLRepository) Get(ctx context.Context, key string) (*keystoreDomain.Entry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, sealed, created_at, updated_at FROM keystore_entries WHERE name = $1`

	var entry keystoreDomain.Entry
	err := querier.QueryRowContext(ctx, query, key).Scan(
		&entry.ID,
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
	return &entry, nil
}

// Delete removes the entry stored under key.
func (p *PostgreSQLRepository) Delete(ctx context.Context, key string) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM keystore_entries WHERE name = $1`, key)
	if err != nil && !isMissingTable(err) {
		return unavailable("delete entry", err)
	}
	return nil
}

// DeleteAll removes every entry.
func (p *PostgreSQLRepository) DeleteAll(ctx context.Context) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM keystore_entries`)
	if err != nil && !isMissingTable(err) {
		return unavailable("delete all entries", err)
	}
	return nil
}

// ListKeys returns the stored names in lexical order.
func (p *PostgreSQLRepository) ListKeys(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

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

func scanNames(rows *sql.Rows) ([]string, error) {
	keys := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable("scan entry name", err)
		}
		keys = append(keys, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate entries", err)
	}
	return keys, nil
}
