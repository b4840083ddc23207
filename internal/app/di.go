// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/familykeys/internal/config"
	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	"github.com/allisson/familykeys/internal/database"
	identityUseCase "github.com/allisson/familykeys/internal/identity/usecase"
	inviteService "github.com/allisson/familykeys/internal/invite/service"
	inviteUseCase "github.com/allisson/familykeys/internal/invite/usecase"
	keystoreService "github.com/allisson/familykeys/internal/keystore/service"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	"github.com/allisson/familykeys/internal/logging"
	messagingUseCase "github.com/allisson/familykeys/internal/messaging/usecase"
	"github.com/allisson/familykeys/internal/metrics"
	recoveryUseCase "github.com/allisson/familykeys/internal/recovery/usecase"
	"github.com/allisson/familykeys/internal/relay"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Crypto services
	aeadManager      cryptoService.AEADManager
	contentCipher    cryptoService.ContentCipher
	keyPairGenerator cryptoService.KeyPairGenerator
	keyWrapper       cryptoService.KeyWrapper
	kmsService       cryptoService.KMSService
	keeper           cryptoDomain.KMSKeeper

	// Key store
	sealer             keystoreService.Sealer
	keystoreRepository keystoreUseCase.Repository
	keystoreUseCase    keystoreUseCase.UseCase

	// Invite services
	codec               inviteService.Codec
	lookupCodeGenerator inviteService.LookupCodeGenerator

	// Relay
	relayClient *relay.Client

	// Use Cases
	identityUseCase  identityUseCase.UseCase
	familyUseCase    inviteUseCase.FamilyUseCase
	inviteUseCase    inviteUseCase.InviteUseCase
	messagingUseCase messagingUseCase.UseCase
	recoveryChecker  *recoveryUseCase.Checker

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	txManagerInit           sync.Once
	aeadManagerInit         sync.Once
	contentCipherInit       sync.Once
	keyPairGeneratorInit    sync.Once
	keyWrapperInit          sync.Once
	kmsServiceInit          sync.Once
	sealerInit              sync.Once
	keystoreRepositoryInit  sync.Once
	keystoreUseCaseInit     sync.Once
	codecInit               sync.Once
	lookupCodeGeneratorInit sync.Once
	relayClientInit         sync.Once
	identityUseCaseInit     sync.Once
	familyUseCaseInit       sync.Once
	inviteUseCaseInit       sync.Once
	messagingUseCaseInit    sync.Once
	recoveryCheckerInit     sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new redacting JSON logger on first access based on the configured log level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = logging.New(os.Stdout, c.config.LogLevel)
	})
	return c.logger
}

// DB returns the database connection used by the SQL key store drivers.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is returned
// when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// TxManager returns the transaction manager for the configured key store driver.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.keeper != nil {
		if err := c.keeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// usesSQL reports whether the key store lives in a SQL database.
func (c *Container) usesSQL() bool {
	return c.config.KeystoreDriver == config.DriverPostgres || c.config.KeystoreDriver == config.DriverMySQL
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	if !c.usesSQL() {
		return nil, fmt.Errorf("keystore driver %q does not use a database", c.config.KeystoreDriver)
	}

	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.KeystoreDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initMetricsProvider creates the Prometheus-backed provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initTxManager returns a SQL transaction manager for database drivers and a local one
// for the file and memory drivers.
func (c *Container) initTxManager() (database.TxManager, error) {
	if !c.usesSQL() {
		return database.NewLocalTxManager(), nil
	}
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}
