package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storyweave/syndication/internal/database"
	eventsDomain "github.com/storyweave/syndication/internal/events/domain"
	"github.com/storyweave/syndication/internal/syndication/domain"
)

// revocationUseCase coordinates consent revocation and expiry sweeps. All
// bulk token invalidation flows through here so a revoked consent and its
// tokens always change state in the same transaction.
type revocationUseCase struct {
	txManager   database.TxManager
	consentRepo ConsentRepository
	tokenRepo   TokenRepository
	eventRepo   EventRepository
}

// NewRevocationUseCase creates a new RevocationUseCase.
func NewRevocationUseCase(
	txManager database.TxManager,
	consentRepo ConsentRepository,
	tokenRepo TokenRepository,
	eventRepo EventRepository,
) RevocationUseCase {
	return &revocationUseCase{
		txManager:   txManager,
		consentRepo: consentRepo,
		tokenRepo:   tokenRepo,
		eventRepo:   eventRepo,
	}
}

// RevokeConsent revokes an active consent and every token bound to it in a
// single transaction. Revoking a consent that is no longer active succeeds as
// a no-op with zero tokens revoked, so owners can retry freely.
func (uc *revocationUseCase) RevokeConsent(
	ctx context.Context,
	consentID uuid.UUID,
	reason string,
) (*RevokeConsentOutput, error) {
	consent, err := uc.consentRepo.Get(ctx, consentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var tokensRevoked int64

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		revoked, err := uc.consentRepo.MarkRevoked(ctx, consentID, reason, now)
		if err != nil {
			return err
		}

		// The CAS lost: the consent was already revoked, expired or still
		// pending. Idempotent success.
		if !revoked {
			return nil
		}

		count, err := uc.tokenRepo.RevokeAllByConsent(ctx, consentID, now)
		if err != nil {
			return err
		}
		tokensRevoked = count

		consent.Status = domain.ConsentStatusRevoked
		consent.RevokedAt = &now
		consent.RevokedReason = reason

		event, err := eventsDomain.NewLifecycleEvent(
			eventsDomain.EventTypeConsentRevoked,
			eventsDomain.ConsentEventPayload{
				ConsentID:         consent.ID,
				ContentType:       string(consent.ContentType),
				ContentID:         consent.ContentID,
				DestinationSiteID: consent.DestinationSiteID,
				Status:            string(domain.ConsentStatusRevoked),
				TokensRevoked:     tokensRevoked,
				Reason:            reason,
			},
			now,
		)
		if err != nil {
			return err
		}
		return uc.eventRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	// Reflect the stored state when the CAS was a no-op.
	if consent.Status != domain.ConsentStatusRevoked {
		consent.Status = consent.EffectiveStatus(now)
	}

	return &RevokeConsentOutput{Consent: consent, TokensRevoked: tokensRevoked}, nil
}

// ExpireConsents persists the expired status for every active consent whose
// TTL has elapsed and revokes their tokens. Validation already denies expired
// consents lazily; this sweep keeps stored state and token records aligned.
// Returns the number of consents expired.
func (uc *revocationUseCase) ExpireConsents(ctx context.Context, now time.Time) (int64, error) {
	var expired int64

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		ids, err := uc.consentRepo.ExpireDue(ctx, now)
		if err != nil {
			return err
		}

		for _, id := range ids {
			if _, err := uc.tokenRepo.RevokeAllByConsent(ctx, id, now); err != nil {
				return err
			}

			consent, err := uc.consentRepo.Get(ctx, id)
			if err != nil {
				return err
			}

			event, err := eventsDomain.NewLifecycleEvent(
				eventsDomain.EventTypeConsentExpired,
				eventsDomain.ConsentEventPayload{
					ConsentID:         consent.ID,
					ContentType:       string(consent.ContentType),
					ContentID:         consent.ContentID,
					DestinationSiteID: consent.DestinationSiteID,
					Status:            string(domain.ConsentStatusExpired),
				},
				now,
			)
			if err != nil {
				return err
			}
			if err := uc.eventRepo.Create(ctx, event); err != nil {
				return err
			}
		}

		expired = int64(len(ids))
		return nil
	})
	if err != nil {
		return 0, err
	}

	return expired, nil
}
