package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	"github.com/allisson/familykeys/internal/errors"
	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
	keystoreService "github.com/allisson/familykeys/internal/keystore/service"
)

type keystoreUseCase struct {
	repo   Repository
	sealer keystoreService.Sealer
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	locks   map[string]*sync.RWMutex
	waiters map[string]map[chan struct{}]struct{}
}

// NewKeystoreUseCase creates the key store.
func NewKeystoreUseCase(repo Repository, sealer keystoreService.Sealer, logger *slog.Logger) UseCase {
	return &keystoreUseCase{
		repo:    repo,
		sealer:  sealer,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		locks:   make(map[string]*sync.RWMutex),
		waiters: make(map[string]map[chan struct{}]struct{}),
	}
}

func (k *keystoreUseCase) lockFor(name string) *sync.RWMutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		k.locks[name] = l
	}
	return l
}

func (k *keystoreUseCase) notify(name string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for ch := range k.waiters[name] {
		close(ch)
	}
	delete(k.waiters, name)
}

func (k *keystoreUseCase) subscribe(name string) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()

	ch := make(chan struct{})
	if k.waiters[name] == nil {
		k.waiters[name] = make(map[chan struct{}]struct{})
	}
	k.waiters[name][ch] = struct{}{}
	return ch
}

func (k *keystoreUseCase) unsubscribe(name string, ch chan struct{}) {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.waiters[name], ch)
	if len(k.waiters[name]) == 0 {
		delete(k.waiters, name)
	}
}

// ownerAttr names the owner id so the log handler can fingerprint it.
func ownerAttr(key keystoreDomain.NamespacedKey) slog.Attr {
	if key.Kind == keystoreDomain.KindPrivateKey {
		return slog.String("user_id", key.OwnerID)
	}
	return slog.String("family_id", key.OwnerID)
}

// Put seals and stores material under key.
func (k *keystoreUseCase) Put(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
	material *keystoreDomain.KeyMaterial,
) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if material == nil || material.Kind() != key.Kind {
		return keystoreDomain.ErrKindMismatch
	}

	name := key.String()
	raw := material.Bytes()
	defer cryptoDomain.Zero(raw)

	sealed, err := k.sealer.Seal(ctx, []byte(name), raw)
	if err != nil {
		return err
	}

	l := k.lockFor(name)
	l.Lock()
	now := k.now()
	err = k.repo.Save(ctx, &keystoreDomain.Entry{
		ID:        uuid.Must(uuid.NewV7()),
		Key:       name,
		Sealed:    sealed,
		CreatedAt: now,
		UpdatedAt: now,
	})
	l.Unlock()
	if err != nil {
		return err
	}

	k.logger.DebugContext(ctx, "key material stored", slog.String("kind", string(key.Kind)), ownerAttr(key))
	k.notify(name)
	return nil
}

// Get opens the material stored under key.
func (k *keystoreUseCase) Get(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
) (*keystoreDomain.KeyMaterial, bool, error) {
	if err := key.Validate(); err != nil {
		return nil, false, err
	}

	l := k.lockFor(key.String())
	l.RLock()
	defer l.RUnlock()

	return k.get(ctx, key)
}

func (k *keystoreUseCase) get(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
) (*keystoreDomain.KeyMaterial, bool, error) {
	name := key.String()

	entry, err := k.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, keystoreDomain.ErrEntryNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	raw, err := k.sealer.Open(ctx, []byte(name), entry.Sealed)
	if err != nil {
		k.logger.WarnContext(ctx, "stored key material could not be opened",
			slog.String("kind", string(key.Kind)), ownerAttr(key), slog.Any("error", err))
		return nil, false, err
	}
	defer cryptoDomain.Zero(raw)

	material, err := keystoreDomain.NewKeyMaterial(key.Kind, raw)
	if err != nil {
		return nil, false, keystoreDomain.ErrUnsealFailure
	}
	return material, true, nil
}

// Remove deletes the material stored under key.
func (k *keystoreUseCase) Remove(ctx context.Context, key keystoreDomain.NamespacedKey) error {
	if err := key.Validate(); err != nil {
		return err
	}

	name := key.String()
	l := k.lockFor(name)
	l.Lock()
	defer l.Unlock()

	if err := k.repo.Delete(ctx, name); err != nil {
		return err
	}
	k.logger.InfoContext(ctx, "key material removed", slog.String("kind", string(key.Kind)), ownerAttr(key))
	return nil
}

// Wipe deletes every entry once in-flight leases on known keys have been released.
func (k *keystoreUseCase) Wipe(ctx context.Context) error {
	k.mu.Lock()
	names := make([]string, 0, len(k.locks))
	for name := range k.locks {
		names = append(names, name)
	}
	locks := make([]*sync.RWMutex, 0, len(names))
	sort.Strings(names)
	for _, name := range names {
		locks = append(locks, k.locks[name])
	}
	k.mu.Unlock()

	for _, l := range locks {
		l.Lock()
	}
	defer func() {
		for _, l := range locks {
			l.Unlock()
		}
	}()

	if err := k.repo.DeleteAll(ctx); err != nil {
		return err
	}
	k.logger.InfoContext(ctx, "key store wiped")
	return nil
}

// ListKeys returns the valid names currently stored. Unrecognized names are skipped.
func (k *keystoreUseCase) ListKeys(ctx context.Context) ([]keystoreDomain.NamespacedKey, error) {
	names, err := k.repo.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]keystoreDomain.NamespacedKey, 0, len(names))
	for _, name := range names {
		key, err := keystoreDomain.ParseNamespacedKey(name)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// WithKey runs fn under a read lease on key.
func (k *keystoreUseCase) WithKey(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
	fn func(material *keystoreDomain.KeyMaterial) error,
) error {
	if err := key.Validate(); err != nil {
		return err
	}

	l := k.lockFor(key.String())
	l.RLock()
	defer l.RUnlock()

	material, found, err := k.get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return cryptoDomain.ErrKeyMissing
	}
	defer material.Zero()

	return fn(material)
}

// Await returns as soon as material is stored under key.
func (k *keystoreUseCase) Await(
	ctx context.Context,
	key keystoreDomain.NamespacedKey,
) (*keystoreDomain.KeyMaterial, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	name := key.String()

	for {
		// Subscribe before reading so a Put between the read and the wait is not missed.
		ch := k.subscribe(name)

		material, found, err := k.Get(ctx, key)
		if err != nil || found {
			k.unsubscribe(name, ch)
			return material, err
		}

		select {
		case <-ch:
		case <-ctx.Done():
			k.unsubscribe(name, ch)
			return nil, ctx.Err()
		}
	}
}

// PutFamilyKey stores the family key of familyID.
func (k *keystoreUseCase) PutFamilyKey(
	ctx context.Context,
	familyID string,
	familyKey *cryptoDomain.FamilyKey,
) error {
	material, err := keystoreDomain.FamilyKeyMaterial(familyKey)
	if err != nil {
		return err
	}
	defer material.Zero()

	return k.Put(ctx, keystoreDomain.FamilyKeyName(familyID), material)
}

// GetFamilyKey loads the family key of familyID.
func (k *keystoreUseCase) GetFamilyKey(
	ctx context.Context,
	familyID string,
) (*cryptoDomain.FamilyKey, bool, error) {
	material, found, err := k.Get(ctx, keystoreDomain.FamilyKeyName(familyID))
	if err != nil || !found {
		return nil, found, err
	}
	defer material.Zero()

	familyKey, err := material.FamilyKey()
	if err != nil {
		return nil, false, err
	}
	return familyKey, true, nil
}

// PutPrivateKey stores the private half of keyPair for userID.
func (k *keystoreUseCase) PutPrivateKey(
	ctx context.Context,
	userID string,
	keyPair *cryptoDomain.KeyPair,
) error {
	material, err := keystoreDomain.PrivateKeyMaterial(keyPair)
	if err != nil {
		return err
	}
	defer material.Zero()

	return k.Put(ctx, keystoreDomain.PrivateKeyName(userID), material)
}

// GetPrivateKey loads the keypair of userID, deriving the public half.
func (k *keystoreUseCase) GetPrivateKey(
	ctx context.Context,
	userID string,
) (*cryptoDomain.KeyPair, bool, error) {
	material, found, err := k.Get(ctx, keystoreDomain.PrivateKeyName(userID))
	if err != nil || !found {
		return nil, found, err
	}
	defer material.Zero()

	keyPair, err := material.KeyPair()
	if err != nil {
		return nil, false, err
	}
	return keyPair, true, nil
}
