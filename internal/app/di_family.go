package app

import (
	"fmt"

	identityUseCase "github.com/allisson/familykeys/internal/identity/usecase"
	inviteService "github.com/allisson/familykeys/internal/invite/service"
	inviteUseCase "github.com/allisson/familykeys/internal/invite/usecase"
	messagingUseCase "github.com/allisson/familykeys/internal/messaging/usecase"
	"github.com/allisson/familykeys/internal/metrics"
	recoveryUseCase "github.com/allisson/familykeys/internal/recovery/usecase"
	"github.com/allisson/familykeys/internal/relay"
)

// Codec returns the invite code codec.
func (c *Container) Codec() inviteService.Codec {
	c.codecInit.Do(func() {
		c.codec = inviteService.NewCodec()
	})
	return c.codec
}

// LookupCodeGenerator returns the lookup code generator.
func (c *Container) LookupCodeGenerator() inviteService.LookupCodeGenerator {
	c.lookupCodeGeneratorInit.Do(func() {
		c.lookupCodeGenerator = inviteService.NewLookupCodeGenerator()
	})
	return c.lookupCodeGenerator
}

// RelayClient returns the relay client.
func (c *Container) RelayClient() (*relay.Client, error) {
	var err error
	c.relayClientInit.Do(func() {
		c.relayClient, err = c.initRelayClient()
		if err != nil {
			c.initErrors["relayClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["relayClient"]; exists {
		return nil, storedErr
	}
	return c.relayClient, nil
}

// IdentityUseCase returns the identity use case.
func (c *Container) IdentityUseCase() (identityUseCase.UseCase, error) {
	var err error
	c.identityUseCaseInit.Do(func() {
		c.identityUseCase, err = c.initIdentityUseCase()
		if err != nil {
			c.initErrors["identityUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityUseCase"]; exists {
		return nil, storedErr
	}
	return c.identityUseCase, nil
}

// FamilyUseCase returns the family use case.
func (c *Container) FamilyUseCase() (inviteUseCase.FamilyUseCase, error) {
	var err error
	c.familyUseCaseInit.Do(func() {
		c.familyUseCase, err = c.initFamilyUseCase()
		if err != nil {
			c.initErrors["familyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["familyUseCase"]; exists {
		return nil, storedErr
	}
	return c.familyUseCase, nil
}

// InviteUseCase returns the encrypted invite use case.
func (c *Container) InviteUseCase() (inviteUseCase.InviteUseCase, error) {
	var err error
	c.inviteUseCaseInit.Do(func() {
		c.inviteUseCase, err = c.initInviteUseCase()
		if err != nil {
			c.initErrors["inviteUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["inviteUseCase"]; exists {
		return nil, storedErr
	}
	return c.inviteUseCase, nil
}

// MessagingUseCase returns the channel message cipher.
func (c *Container) MessagingUseCase() (messagingUseCase.UseCase, error) {
	var err error
	c.messagingUseCaseInit.Do(func() {
		c.messagingUseCase, err = c.initMessagingUseCase()
		if err != nil {
			c.initErrors["messagingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messagingUseCase"]; exists {
		return nil, storedErr
	}
	return c.messagingUseCase, nil
}

// RecoveryChecker returns the key-loss recovery checker.
func (c *Container) RecoveryChecker() (*recoveryUseCase.Checker, error) {
	var err error
	c.recoveryCheckerInit.Do(func() {
		c.recoveryChecker, err = c.initRecoveryChecker()
		if err != nil {
			c.initErrors["recoveryChecker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recoveryChecker"]; exists {
		return nil, storedErr
	}
	return c.recoveryChecker, nil
}

// initRelayClient creates the relay client, instrumenting its transport when metrics are enabled.
func (c *Container) initRelayClient() (*relay.Client, error) {
	cfg := relay.Config{
		BaseURL:        c.config.RelayBaseURL,
		Timeout:        c.config.RelayTimeout,
		RequestsPerSec: c.config.RelayRateLimitRequestsPerSec,
		Burst:          c.config.RelayRateLimitBurst,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for relay client: %w", err)
	}
	if provider != nil {
		cfg.Transport = metrics.NewClientTransport(provider.MeterProvider(), c.config.MetricsNamespace, nil)
	}

	client, err := relay.NewClient(cfg, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create relay client: %w", err)
	}
	return client, nil
}

// initIdentityUseCase creates the identity use case.
func (c *Container) initIdentityUseCase() (identityUseCase.UseCase, error) {
	keystore, err := c.KeystoreUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore for identity use case: %w", err)
	}

	relayClient, err := c.RelayClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get relay client for identity use case: %w", err)
	}

	useCase := identityUseCase.NewIdentityUseCase(keystore, c.KeyPairGenerator(), relayClient, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for identity use case: %w", err)
		}
		useCase = identityUseCase.NewIdentityUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initFamilyUseCase creates the family use case.
func (c *Container) initFamilyUseCase() (inviteUseCase.FamilyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for family use case: %w", err)
	}

	keystore, err := c.KeystoreUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore for family use case: %w", err)
	}

	relayClient, err := c.RelayClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get relay client for family use case: %w", err)
	}

	useCase := inviteUseCase.NewFamilyUseCase(txManager, keystore, relayClient, c.Codec(), c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for family use case: %w", err)
		}
		useCase = inviteUseCase.NewFamilyUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initInviteUseCase creates the encrypted invite use case.
func (c *Container) initInviteUseCase() (inviteUseCase.InviteUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for invite use case: %w", err)
	}

	keystore, err := c.KeystoreUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore for invite use case: %w", err)
	}

	relayClient, err := c.RelayClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get relay client for invite use case: %w", err)
	}

	useCase := inviteUseCase.NewInviteUseCase(
		txManager,
		keystore,
		c.KeyWrapper(),
		c.LookupCodeGenerator(),
		relayClient,
		relayClient,
		c.config.InviteTTL,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for invite use case: %w", err)
		}
		useCase = inviteUseCase.NewInviteUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initMessagingUseCase creates the channel message cipher.
func (c *Container) initMessagingUseCase() (messagingUseCase.UseCase, error) {
	keystore, err := c.KeystoreUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore for messaging use case: %w", err)
	}

	contentCipher, err := c.ContentCipher()
	if err != nil {
		return nil, err
	}

	useCase := messagingUseCase.NewChannelCipher(keystore, contentCipher, c.config.DecryptConcurrency, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for messaging use case: %w", err)
		}
		useCase = messagingUseCase.NewChannelCipherWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initRecoveryChecker creates the recovery checker.
func (c *Container) initRecoveryChecker() (*recoveryUseCase.Checker, error) {
	keystore, err := c.KeystoreUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore for recovery checker: %w", err)
	}
	return recoveryUseCase.NewChecker(keystore, c.Logger()), nil
}
