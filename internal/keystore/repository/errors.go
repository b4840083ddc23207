// Package repository implements durable persistence for sealed key store entries.
//
// Four backends are provided:
//   - FileRepository: a device-local JSON document, the default for a single device
//   - PostgreSQLRepository and MySQLRepository: SQL tables for managed devices
//   - MemoryRepository: ephemeral sessions and tests
//
// A backend that has not been initialized yet (no file, no table) reads as empty rather than
// failing. Failures of the engine itself surface as ErrStorageUnavailable.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

const (
	pqUndefinedTable = "42P01"
	mysqlNoSuchTable = 1146
)

// isMissingTable reports whether err means the schema has not been created yet.
func isMissingTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUndefinedTable
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable
	}
	return false
}

// unavailable wraps an engine failure as ErrStorageUnavailable, keeping the cause readable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", keystoreDomain.ErrStorageUnavailable, op, err)
}
