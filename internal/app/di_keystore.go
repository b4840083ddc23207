package app

import (
	"context"
	"fmt"

	"github.com/allisson/familykeys/internal/config"
	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	cryptoService "github.com/allisson/familykeys/internal/crypto/service"
	keystoreRepository "github.com/allisson/familykeys/internal/keystore/repository"
	keystoreService "github.com/allisson/familykeys/internal/keystore/service"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// ContentCipher returns the message cipher configured with CIPHER_ALGORITHM.
func (c *Container) ContentCipher() (cryptoService.ContentCipher, error) {
	var err error
	c.contentCipherInit.Do(func() {
		c.contentCipher, err = c.initContentCipher()
		if err != nil {
			c.initErrors["contentCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentCipher"]; exists {
		return nil, storedErr
	}
	return c.contentCipher, nil
}

// KeyPairGenerator returns the identity keypair generator.
func (c *Container) KeyPairGenerator() cryptoService.KeyPairGenerator {
	c.keyPairGeneratorInit.Do(func() {
		c.keyPairGenerator = cryptoService.NewKeyPairGenerator()
	})
	return c.keyPairGenerator
}

// KeyWrapper returns the invite envelope wrapper.
func (c *Container) KeyWrapper() cryptoService.KeyWrapper {
	c.keyWrapperInit.Do(func() {
		c.keyWrapper = cryptoService.NewKeyWrapper()
	})
	return c.keyWrapper
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// Sealer returns the at-rest sealer selected by KEYSTORE_SEALER.
func (c *Container) Sealer() (keystoreService.Sealer, error) {
	var err error
	c.sealerInit.Do(func() {
		c.sealer, err = c.initSealer()
		if err != nil {
			c.initErrors["sealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealer"]; exists {
		return nil, storedErr
	}
	return c.sealer, nil
}

// KeystoreRepository returns the key store repository selected by KEYSTORE_DRIVER.
func (c *Container) KeystoreRepository() (keystoreUseCase.Repository, error) {
	var err error
	c.keystoreRepositoryInit.Do(func() {
		c.keystoreRepository, err = c.initKeystoreRepository()
		if err != nil {
			c.initErrors["keystoreRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keystoreRepository"]; exists {
		return nil, storedErr
	}
	return c.keystoreRepository, nil
}

// KeystoreUseCase returns the device key store.
func (c *Container) KeystoreUseCase() (keystoreUseCase.UseCase, error) {
	var err error
	c.keystoreUseCaseInit.Do(func() {
		c.keystoreUseCase, err = c.initKeystoreUseCase()
		if err != nil {
			c.initErrors["keystoreUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keystoreUseCase"]; exists {
		return nil, storedErr
	}
	return c.keystoreUseCase, nil
}

// initContentCipher parses the configured algorithm.
func (c *Container) initContentCipher() (cryptoService.ContentCipher, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cipher algorithm: %w", err)
	}
	return cryptoService.NewContentCipher(c.AEADManager(), alg), nil
}

// initSealer opens the KMS keeper or derives the passphrase sealer.
func (c *Container) initSealer() (keystoreService.Sealer, error) {
	switch c.config.KeystoreSealer {
	case config.SealerPassphrase:
		sealer, err := keystoreService.NewPassphraseSealer(c.config.KeystorePassphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to create passphrase sealer: %w", err)
		}
		return sealer, nil

	case config.SealerKMS:
		keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open kms keeper: %w", err)
		}
		c.mu.Lock()
		c.keeper = keeper
		c.mu.Unlock()
		return keystoreService.NewKMSSealer(keeper), nil

	default:
		return nil, fmt.Errorf("unsupported keystore sealer: %s", c.config.KeystoreSealer)
	}
}

// initKeystoreRepository creates the repository for the configured driver.
func (c *Container) initKeystoreRepository() (keystoreUseCase.Repository, error) {
	switch c.config.KeystoreDriver {
	case config.DriverFile:
		return keystoreRepository.NewFileRepository(c.config.KeystorePath), nil

	case config.DriverMemory:
		return keystoreRepository.NewMemoryRepository(), nil

	case config.DriverPostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for keystore repository: %w", err)
		}
		return keystoreRepository.NewPostgreSQLRepository(db), nil

	case config.DriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for keystore repository: %w", err)
		}
		return keystoreRepository.NewMySQLRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported keystore driver: %s", c.config.KeystoreDriver)
	}
}

// initKeystoreUseCase assembles the key store and wraps it with metrics when enabled.
func (c *Container) initKeystoreUseCase() (keystoreUseCase.UseCase, error) {
	repo, err := c.KeystoreRepository()
	if err != nil {
		return nil, err
	}

	sealer, err := c.Sealer()
	if err != nil {
		return nil, err
	}

	useCase := keystoreUseCase.NewKeystoreUseCase(repo, sealer, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for keystore use case: %w", err)
		}
		useCase = keystoreUseCase.NewKeystoreUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
