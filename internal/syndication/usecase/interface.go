// Package usecase implements the syndication business logic: consent
// lifecycle, capability token issuance and validation, the content access
// gateway and revocation.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	eventsDomain "github.com/storyweave/syndication/internal/events/domain"
	registryDomain "github.com/storyweave/syndication/internal/registry/domain"
	"github.com/storyweave/syndication/internal/syndication/domain"
)

// ConsentRepository defines consent repository operations.
type ConsentRepository interface {
	Create(ctx context.Context, consent *domain.Consent) error
	Get(ctx context.Context, consentID uuid.UUID) (*domain.Consent, error)
	GetLive(
		ctx context.Context,
		contentType contentDomain.ContentType,
		contentID string,
		siteID uuid.UUID,
		now time.Time,
	) (*domain.Consent, error)
	GetLiveByContentAndSite(
		ctx context.Context,
		contentID string,
		siteID uuid.UUID,
		now time.Time,
	) (*domain.Consent, error)
	Update(ctx context.Context, consent *domain.Consent) error
	MarkRevoked(ctx context.Context, consentID uuid.UUID, reason string, revokedAt time.Time) (bool, error)
	ExpireStale(
		ctx context.Context,
		contentType contentDomain.ContentType,
		contentID string,
		siteID uuid.UUID,
		now time.Time,
	) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// TokenRepository defines capability token repository operations.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Token, error)
	ListByContentID(ctx context.Context, contentID string) ([]*domain.Token, error)
	RevokeAllByConsent(ctx context.Context, consentID uuid.UUID, revokedAt time.Time) (int64, error)
}

// AuditEntryRepository defines access audit repository operations.
type AuditEntryRepository interface {
	Create(ctx context.Context, entry *domain.AccessAuditEntry) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SiteRepository defines the destination site lookups the syndication
// use cases need.
type SiteRepository interface {
	Get(ctx context.Context, siteID uuid.UUID) (*registryDomain.DestinationSite, error)
	GetBySlug(ctx context.Context, slug string) (*registryDomain.DestinationSite, error)
}

// ContentRepository defines read-only content item lookup.
type ContentRepository interface {
	Get(
		ctx context.Context,
		contentType contentDomain.ContentType,
		contentID string,
	) (*contentDomain.ContentItem, error)
}

// EventRepository defines the outbox write used inside consent transactions.
type EventRepository interface {
	Create(ctx context.Context, event *eventsDomain.LifecycleEvent) error
}

// CreateConsentInput contains the input data for a syndication consent request.
type CreateConsentInput struct {
	ContentType     string             `json:"content_type"`
	ContentID       string             `json:"content_id"`
	DestinationSlug string             `json:"destination_slug"`
	Permissions     domain.Permissions `json:"permissions"`
	PermissionLevel string             `json:"permission_level"`
	AttributionText string             `json:"attribution_text"`
	RequestReason   string             `json:"request_reason"`
}

// CreateConsentOutput is the result of a consent request. PlainToken is set
// only when the consent was auto-approved; it is never retrievable afterwards.
type CreateConsentOutput struct {
	Consent      *domain.Consent
	PlainToken   string
	AutoApproved bool
}

// ApproveConsentOutput is the result of approving a pending consent.
// PlainToken is the one-time plaintext of the newly issued capability token.
type ApproveConsentOutput struct {
	Consent    *domain.Consent
	PlainToken string
}

// RevokeConsentOutput is the result of a revocation request. TokensRevoked is
// zero when the consent was already inactive (idempotent no-op).
type RevokeConsentOutput struct {
	Consent       *domain.Consent
	TokensRevoked int64
}

// ValidateTokenResult carries a validated token together with the owning
// consent, re-read at validation time.
type ValidateTokenResult struct {
	Token   *domain.Token
	Consent *domain.Consent
}

// ContentRequestInput identifies an inbound content fetch from a destination site.
type ContentRequestInput struct {
	PlainToken string
	ContentID  string
	RequestID  string
}

// ContentView is the permission-shaped representation of a content item
// returned to a destination site. Fields the consent does not cover are nil.
type ContentView struct {
	ContentType     contentDomain.ContentType `json:"content_type"`
	ContentID       string                    `json:"content_id"`
	Title           string                    `json:"title"`
	Summary         string                    `json:"summary"`
	Body            *string                   `json:"body,omitempty"`
	MediaURLs       []string                  `json:"media_urls,omitempty"`
	ViewCount       *int64                    `json:"view_count,omitempty"`
	ShareCount      *int64                    `json:"share_count,omitempty"`
	AttributionText string                    `json:"attribution_text"`
}

// ConsentUseCase defines the consent lifecycle operations.
type ConsentUseCase interface {
	CreateConsent(ctx context.Context, input CreateConsentInput) (*CreateConsentOutput, error)
	GetConsent(ctx context.Context, contentID, destinationSlug string) (*domain.Consent, error)
	ApproveConsent(ctx context.Context, consentID uuid.UUID) (*ApproveConsentOutput, error)
}

// TokenUseCase defines capability token operations exposed to owners and the gateway.
type TokenUseCase interface {
	ValidateToken(ctx context.Context, plainToken string) (*ValidateTokenResult, error)
	ListTokens(ctx context.Context, contentID string) ([]*domain.Token, error)
}

// RevocationUseCase defines the revocation and expiry sweep operations. It is
// the only component allowed to invalidate tokens in bulk.
type RevocationUseCase interface {
	RevokeConsent(ctx context.Context, consentID uuid.UUID, reason string) (*RevokeConsentOutput, error)
	ExpireConsents(ctx context.Context, now time.Time) (int64, error)
}

// GatewayUseCase defines the content access gateway operation.
type GatewayUseCase interface {
	HandleContentRequest(ctx context.Context, input ContentRequestInput) (*ContentView, error)
}
