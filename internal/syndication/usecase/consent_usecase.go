package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	"github.com/storyweave/syndication/internal/database"
	apperrors "github.com/storyweave/syndication/internal/errors"
	eventsDomain "github.com/storyweave/syndication/internal/events/domain"
	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/service"
	appValidation "github.com/storyweave/syndication/internal/validation"
)

// ConsentConfig holds consent lifecycle configuration.
type ConsentConfig struct {
	// TTL is how long an approved consent stays active before lazy expiry.
	TTL time.Duration
	// AutoApproveTrustedSites activates consents for trusted-tier sites
	// immediately, skipping the pending state.
	AutoApproveTrustedSites bool
}

// consentUseCase handles the consent request and approval flow.
type consentUseCase struct {
	config       ConsentConfig
	txManager    database.TxManager
	consentRepo  ConsentRepository
	tokenRepo    TokenRepository
	siteRepo     SiteRepository
	contentRepo  ContentRepository
	eventRepo    EventRepository
	tokenService service.TokenService
}

// NewConsentUseCase creates a new ConsentUseCase.
func NewConsentUseCase(
	config ConsentConfig,
	txManager database.TxManager,
	consentRepo ConsentRepository,
	tokenRepo TokenRepository,
	siteRepo SiteRepository,
	contentRepo ContentRepository,
	eventRepo EventRepository,
	tokenService service.TokenService,
) ConsentUseCase {
	return &consentUseCase{
		config:       config,
		txManager:    txManager,
		consentRepo:  consentRepo,
		tokenRepo:    tokenRepo,
		siteRepo:     siteRepo,
		contentRepo:  contentRepo,
		eventRepo:    eventRepo,
		tokenService: tokenService,
	}
}

// validateCreateConsentInput validates the consent request using jellydator/validation.
func (uc *consentUseCase) validateCreateConsentInput(input CreateConsentInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.ContentType,
			validation.Required.Error("content_type is required"),
			validation.In(
				string(contentDomain.ContentTypeStory),
				string(contentDomain.ContentTypeMediaAsset),
				string(contentDomain.ContentTypeGallery),
			).Error("content_type must be one of: story, media_asset, gallery"),
		),
		validation.Field(&input.ContentID,
			validation.Required.Error("content_id is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("content_id must be between 1 and 255 characters"),
		),
		validation.Field(&input.DestinationSlug,
			validation.Required.Error("destination_slug is required"),
			appValidation.Slug,
		),
		validation.Field(&input.PermissionLevel,
			validation.Required.Error("permission_level is required"),
			validation.In(
				string(domain.PermissionLevelPublic),
				string(domain.PermissionLevelCommunity),
				string(domain.PermissionLevelRestricted),
			).Error("permission_level must be one of: public, community, restricted"),
		),
		validation.Field(&input.AttributionText,
			validation.Required.Error("attribution_text is required"),
			appValidation.NotBlank,
			validation.Length(1, 1000).Error("attribution_text must be between 1 and 1000 characters"),
		),
		validation.Field(&input.RequestReason,
			validation.Length(0, 2000).Error("request_reason must be at most 2000 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateConsent registers a consent request for syndicating a content item to
// a destination site. Trusted sites are auto-approved and receive a capability
// token immediately; everything else starts pending.
func (uc *consentUseCase) CreateConsent(
	ctx context.Context,
	input CreateConsentInput,
) (*CreateConsentOutput, error) {
	if err := uc.validateCreateConsentInput(input); err != nil {
		return nil, err
	}

	site, err := uc.siteRepo.GetBySlug(ctx, strings.TrimSpace(input.DestinationSlug))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrUnknownDestination
		}
		return nil, err
	}
	// Suspended sites are treated the same as unregistered ones.
	if !site.IsActive() {
		return nil, domain.ErrUnknownDestination
	}

	contentType := contentDomain.ContentType(input.ContentType)
	contentID := strings.TrimSpace(input.ContentID)

	if _, err := uc.contentRepo.Get(ctx, contentType, contentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// Pre-check for an existing live consent so the common conflict path can
	// report the winner. The partial unique index remains the authority under
	// concurrency.
	if existing, err := uc.consentRepo.GetLive(ctx, contentType, contentID, site.ID, now); err == nil {
		return nil, &domain.ConsentConflictError{Existing: existing}
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	consent := &domain.Consent{
		ID:                uuid.Must(uuid.NewV7()),
		ContentType:       contentType,
		ContentID:         contentID,
		DestinationSiteID: site.ID,
		Status:            domain.ConsentStatusPending,
		Permissions:       input.Permissions,
		PermissionLevel:   domain.PermissionLevel(input.PermissionLevel),
		AttributionText:   input.AttributionText,
		RequestReason:     strings.TrimSpace(input.RequestReason),
		CreatedAt:         now,
	}

	autoApprove := uc.config.AutoApproveTrustedSites && site.AutoApproves()
	if autoApprove {
		expiresAt := now.Add(uc.config.TTL)
		consent.Status = domain.ConsentStatusActive
		consent.ExpiresAt = &expiresAt
	}

	var plainToken string

	createTx := func(ctx context.Context) error {
		if err := uc.consentRepo.Create(ctx, consent); err != nil {
			return err
		}

		if autoApprove {
			plain, err := uc.issueToken(ctx, consent.ID, now)
			if err != nil {
				return err
			}
			plainToken = plain
		}

		if err := uc.recordEvent(ctx, eventsDomain.EventTypeConsentCreated, consent, now); err != nil {
			return err
		}
		if autoApprove {
			if err := uc.recordEvent(ctx, eventsDomain.EventTypeConsentApproved, consent, now); err != nil {
				return err
			}
		}

		return nil
	}

	err = uc.txManager.WithTx(ctx, createTx)
	if apperrors.Is(err, domain.ErrConsentDuplicate) {
		// The uniqueness slot may be held by a consent whose TTL has elapsed
		// but whose stored status is still active. Release it and retry once;
		// no sweep run is needed for a fresh grant to succeed.
		if released, expErr := uc.consentRepo.ExpireStale(ctx, contentType, contentID, site.ID, now); expErr == nil && released {
			err = uc.txManager.WithTx(ctx, createTx)
		}
	}
	if err != nil {
		// Lost the race: surface the winning consent in the conflict.
		if apperrors.Is(err, domain.ErrConsentDuplicate) {
			if existing, getErr := uc.consentRepo.GetLive(ctx, contentType, contentID, site.ID, now); getErr == nil {
				return nil, &domain.ConsentConflictError{Existing: existing}
			}
			return nil, domain.ErrConsentDuplicate
		}
		return nil, err
	}

	return &CreateConsentOutput{
		Consent:      consent,
		PlainToken:   plainToken,
		AutoApproved: autoApprove,
	}, nil
}

// GetConsent retrieves the effectively live consent for a content item and
// destination site. Consents past their TTL are not reported even before the
// sweep rewrites their stored status.
func (uc *consentUseCase) GetConsent(
	ctx context.Context,
	contentID, destinationSlug string,
) (*domain.Consent, error) {
	site, err := uc.siteRepo.GetBySlug(ctx, destinationSlug)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrUnknownDestination
		}
		return nil, err
	}

	return uc.consentRepo.GetLiveByContentAndSite(ctx, contentID, site.ID, time.Now().UTC())
}

// ApproveConsent transitions a pending consent to active, stamps the expiry
// window and issues the first capability token.
func (uc *consentUseCase) ApproveConsent(
	ctx context.Context,
	consentID uuid.UUID,
) (*ApproveConsentOutput, error) {
	consent, err := uc.consentRepo.Get(ctx, consentID)
	if err != nil {
		return nil, err
	}

	if !consent.CanApprove() {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	expiresAt := now.Add(uc.config.TTL)
	consent.Status = domain.ConsentStatusActive
	consent.ExpiresAt = &expiresAt

	var plainToken string

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.consentRepo.Update(ctx, consent); err != nil {
			return err
		}

		plain, err := uc.issueToken(ctx, consent.ID, now)
		if err != nil {
			return err
		}
		plainToken = plain

		return uc.recordEvent(ctx, eventsDomain.EventTypeConsentApproved, consent, now)
	})
	if err != nil {
		return nil, err
	}

	return &ApproveConsentOutput{Consent: consent, PlainToken: plainToken}, nil
}

// issueToken generates a capability token bound to a consent and stores only
// its hash. The plaintext is returned exactly once.
func (uc *consentUseCase) issueToken(ctx context.Context, consentID uuid.UUID, now time.Time) (string, error) {
	plain, hash, err := uc.tokenService.GenerateToken()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate token")
	}

	token := &domain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: hash,
		ConsentID: consentID,
		CreatedAt: now,
	}

	if err := uc.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	return plain, nil
}

func (uc *consentUseCase) recordEvent(
	ctx context.Context,
	eventType eventsDomain.EventType,
	consent *domain.Consent,
	now time.Time,
) error {
	event, err := eventsDomain.NewLifecycleEvent(eventType, eventsDomain.ConsentEventPayload{
		ConsentID:         consent.ID,
		ContentType:       string(consent.ContentType),
		ContentID:         consent.ContentID,
		DestinationSiteID: consent.DestinationSiteID,
		Status:            string(consent.Status),
	}, now)
	if err != nil {
		return err
	}
	return uc.eventRepo.Create(ctx, event)
}
