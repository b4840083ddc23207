package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/familykeys/internal/config"
	"github.com/allisson/familykeys/internal/database"
)

// RunMigrations creates or updates the key store schema for the SQL drivers.
// The file and memory drivers have no schema; nothing is done for them.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	if driver == config.DriverFile || driver == config.DriverMemory {
		logger.Info("keystore driver has no schema, skipping migrations", slog.String("driver", driver))
		return nil
	}

	logger.Info("running database migrations", slog.String("driver", driver))

	source, err := database.MigrationsSource(driver)
	if err != nil {
		return err
	}

	m, err := migrate.New(source, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
