// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	appValidation "github.com/allisson/familykeys/internal/validation"
)

// Key store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Key store sealers.
const (
	SealerKMS        = "kms"
	SealerPassphrase = "passphrase"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// KeystoreDriver selects the key store backend: file, memory, postgres or mysql.
	KeystoreDriver string
	// KeystorePath is the location of the file backend.
	KeystorePath string

	// DBConnectionString is the connection string for the postgres and mysql backends.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// KeystoreSealer selects how entries are sealed at rest: kms or passphrase.
	KeystoreSealer string
	// KMSKeyURI is the gocloud secrets URL of the device key (base64key://, gcpkms://, ...).
	KMSKeyURI string
	// KeystorePassphrase is the passphrase used by the passphrase sealer.
	KeystorePassphrase string

	// CipherAlgorithm is the AEAD used for new message ciphertexts.
	CipherAlgorithm string

	// InviteTTL is the lifetime of an encrypted invite.
	InviteTTL time.Duration

	// RelayBaseURL is the base URL of the invite relay and key directory.
	RelayBaseURL string
	// RelayTimeout bounds each relay request.
	RelayTimeout time.Duration
	// RelayRateLimitRequestsPerSec is the client-side request rate towards the relay.
	RelayRateLimitRequestsPerSec float64
	// RelayRateLimitBurst is the burst size of the client-side relay rate limiter.
	RelayRateLimitBurst int

	// DecryptConcurrency bounds concurrent message decryption per batch.
	DecryptConcurrency int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Key store
		KeystoreDriver: env.GetString("KEYSTORE_DRIVER", DriverFile),
		KeystorePath:   env.GetString("KEYSTORE_PATH", defaultKeystorePath()),

		// Database configuration
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 5),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 2),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME_MINUTES", 5, time.Minute),

		// Sealing
		KeystoreSealer:     env.GetString("KEYSTORE_SEALER", SealerKMS),
		KMSKeyURI:          env.GetString("KMS_KEY_URI", ""),
		KeystorePassphrase: env.GetString("KEYSTORE_PASSPHRASE", ""),

		// Crypto
		CipherAlgorithm: env.GetString("CIPHER_ALGORITHM", "xchacha20-poly1305"),

		// Invites
		InviteTTL: env.GetDuration("INVITE_TTL_HOURS", 168, time.Hour),

		// Relay
		RelayBaseURL:                 env.GetString("RELAY_BASE_URL", "http://localhost:8080"),
		RelayTimeout:                 env.GetDuration("RELAY_TIMEOUT_SECONDS", 15, time.Second),
		RelayRateLimitRequestsPerSec: env.GetFloat64("RELAY_RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RelayRateLimitBurst:          env.GetInt("RELAY_RATE_LIMIT_BURST", 10),

		// Messaging
		DecryptConcurrency: env.GetInt("DECRYPT_CONCURRENCY", 8),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "familykeys"),
	}
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.KeystoreDriver,
			validation.Required,
			validation.In(DriverFile, DriverMemory, DriverPostgres, DriverMySQL),
		),
		validation.Field(&c.KeystorePath,
			validation.When(c.KeystoreDriver == DriverFile, validation.Required, appValidation.NotBlank),
		),
		validation.Field(&c.DBConnectionString,
			validation.When(
				c.KeystoreDriver == DriverPostgres || c.KeystoreDriver == DriverMySQL,
				validation.Required,
			),
		),
		validation.Field(&c.KeystoreSealer, validation.Required, validation.In(SealerKMS, SealerPassphrase)),
		validation.Field(&c.KMSKeyURI, validation.When(c.KeystoreSealer == SealerKMS, validation.Required)),
		validation.Field(&c.KeystorePassphrase,
			validation.When(c.KeystoreSealer == SealerPassphrase, validation.Required),
		),
		validation.Field(&c.CipherAlgorithm,
			validation.Required,
			validation.In("xchacha20-poly1305", "chacha20-poly1305", "aes-gcm"),
		),
		validation.Field(&c.InviteTTL, validation.Min(time.Hour)),
		validation.Field(&c.RelayTimeout, validation.Min(time.Second)),
		validation.Field(&c.RelayRateLimitRequestsPerSec, validation.Min(0.0)),
		validation.Field(&c.DecryptConcurrency, validation.Min(1)),
	)
	return appValidation.WrapValidationError(err)
}

func defaultKeystorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".familykeys", "keystore.json")
	}
	return filepath.Join(home, ".familykeys", "keystore.json")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
