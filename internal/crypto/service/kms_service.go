package service

import (
	"context"
	"net/url"
	"slices"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	"github.com/allisson/familykeys/internal/errors"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperSchemes lists the key URI schemes the key store can be sealed with. base64key
// holds a device-local key; the others name a managed key.
var KeeperSchemes = []string{"base64key", "gcpkms", "awskms", "azurekeyvault", "hashivault"}

// KMSService opens the keeper that seals the local key store at rest.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI. Errors never echo keyURI, which may be the
	// key itself.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper returns ErrInvalidInput for an unparseable URI or a scheme outside
// KeeperSchemes, and ErrUnavailable when the provider rejects the key.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || u.Scheme == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "kms key uri is not a URL")
	}
	if !slices.Contains(KeeperSchemes, u.Scheme) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported kms scheme %q", u.Scheme)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "%s keeper could not be opened", u.Scheme)
	}
	return keeper, nil
}
