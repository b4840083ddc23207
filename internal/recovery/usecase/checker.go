// Package usecase implements the key-loss recovery check run on every session bootstrap.
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/familykeys/internal/errors"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
	keystoreUseCase "github.com/allisson/familykeys/internal/keystore/usecase"
	recoveryDomain "github.com/allisson/familykeys/internal/recovery/domain"
)

// Checker tracks whether this device holds the keys of the signed-in user. Results are
// never cached: every Check queries the store again, since a re-wrapped key may have
// arrived in the meantime.
type Checker struct {
	keystore keystoreUseCase.UseCase
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	state        recoveryDomain.State
	acknowledged bool
}

// NewChecker creates a Checker in StateUnknown.
func NewChecker(keystore keystoreUseCase.UseCase, logger *slog.Logger) *Checker {
	return &Checker{
		keystore: keystore,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		state:    recoveryDomain.StateUnknown,
	}
}

// State returns the current state.
func (c *Checker) State() recoveryDomain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Checker) setState(state recoveryDomain.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	if state == recoveryDomain.StateKeyPresent {
		c.acknowledged = false
	}
}

// Check probes the private key of userID and, when familyID is set, the family key.
// An entry the device sealer cannot open counts as missing. Only a store failure moves to
// StateUnavailable and is returned with the report.
func (c *Checker) Check(ctx context.Context, userID, familyID string) (*recoveryDomain.Report, error) {
	c.setState(recoveryDomain.StateChecking)

	keys := []keystoreDomain.NamespacedKey{keystoreDomain.PrivateKeyName(userID)}
	if familyID != "" {
		keys = append(keys, keystoreDomain.FamilyKeyName(familyID))
	}

	present := make([]bool, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			material, found, err := c.keystore.Get(gctx, key)
			if unusable(err) {
				c.logger.WarnContext(gctx, "stored key cannot be opened on this device",
					slog.String("kind", string(key.Kind)), slog.Any("error", err))
				return nil
			}
			if err != nil {
				return err
			}
			if found {
				material.Zero()
			}
			present[i] = found
			return nil
		})
	}

	report := &recoveryDomain.Report{CheckedAt: c.now()}
	if err := g.Wait(); err != nil {
		c.setState(recoveryDomain.StateUnavailable)
		report.State = recoveryDomain.StateUnavailable
		c.logger.ErrorContext(ctx, "key store unavailable during recovery check", slog.Any("error", err))
		return report, err
	}

	for i, key := range keys {
		if !present[i] {
			report.Missing = append(report.Missing, key)
		}
	}

	if len(report.Missing) == 0 {
		report.State = recoveryDomain.StateKeyPresent
		c.setState(report.State)
		return report, nil
	}

	report.State = recoveryDomain.StateKeyMissing
	c.mu.Lock()
	c.state = report.State
	report.NeedsNotice = !c.acknowledged
	c.mu.Unlock()

	c.logger.WarnContext(ctx, "key material missing on this device",
		slog.String("user_id", userID), slog.Int("missing", len(report.Missing)))
	return report, nil
}

// Acknowledge records that the user dismissed the missing-key notice. It does not change
// the key state; the next Check still reports StateKeyMissing until a key arrives.
func (c *Checker) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acknowledged = true
}

// unusable reports an entry that exists but cannot be opened with this device's sealer,
// e.g. after the device key or passphrase changed.
func unusable(err error) bool {
	return errors.Is(err, keystoreDomain.ErrUnsealFailure) || errors.Is(err, keystoreDomain.ErrKDFPolicy)
}
