package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	"github.com/allisson/familykeys/internal/metrics"
)

func record(ctx context.Context, m metrics.BusinessMetrics, domain, operation string, start time.Time, err error) {
	metrics.Observe(ctx, m, domain, operation, start, err)
}

type familyUseCaseWithMetrics struct {
	next    FamilyUseCase
	metrics metrics.BusinessMetrics
}

// NewFamilyUseCaseWithMetrics wraps a FamilyUseCase with metrics recording.
func NewFamilyUseCaseWithMetrics(useCase FamilyUseCase, m metrics.BusinessMetrics) FamilyUseCase {
	return &familyUseCaseWithMetrics{next: useCase, metrics: m}
}

func (f *familyUseCaseWithMetrics) CreateFamily(
	ctx context.Context,
	name string,
) (*inviteDomain.FamilyInvite, error) {
	start := time.Now()
	invite, err := f.next.CreateFamily(ctx, name)
	record(ctx, f.metrics, "family", "create_family", start, err)
	return invite, err
}

func (f *familyUseCaseWithMetrics) ShareInvite(
	ctx context.Context,
	familyID, lookupCode string,
) (*inviteDomain.FamilyInvite, error) {
	start := time.Now()
	invite, err := f.next.ShareInvite(ctx, familyID, lookupCode)
	record(ctx, f.metrics, "family", "share_invite", start, err)
	return invite, err
}

func (f *familyUseCaseWithMetrics) RedeemInvite(
	ctx context.Context,
	fullCode string,
) (*inviteDomain.JoinResult, error) {
	start := time.Now()
	result, err := f.next.RedeemInvite(ctx, fullCode)
	record(ctx, f.metrics, "family", "redeem_invite", start, err)
	return result, err
}

type inviteUseCaseWithMetrics struct {
	next    InviteUseCase
	metrics metrics.BusinessMetrics
}

// NewInviteUseCaseWithMetrics wraps an InviteUseCase with metrics recording.
func NewInviteUseCaseWithMetrics(useCase InviteUseCase, m metrics.BusinessMetrics) InviteUseCase {
	return &inviteUseCaseWithMetrics{next: useCase, metrics: m}
}

func (i *inviteUseCaseWithMetrics) InviteRegisteredUser(
	ctx context.Context,
	senderUserID, familyID, inviteeEmail string,
) (*inviteDomain.EncryptedInvite, error) {
	start := time.Now()
	invite, err := i.next.InviteRegisteredUser(ctx, senderUserID, familyID, inviteeEmail)
	record(ctx, i.metrics, "invite", "invite_registered_user", start, err)
	return invite, err
}

func (i *inviteUseCaseWithMetrics) AcceptEncryptedInvite(
	ctx context.Context,
	userID string,
	inviteID uuid.UUID,
) (*inviteDomain.JoinResult, error) {
	start := time.Now()
	result, err := i.next.AcceptEncryptedInvite(ctx, userID, inviteID)
	record(ctx, i.metrics, "invite", "accept_encrypted_invite", start, err)
	return result, err
}
