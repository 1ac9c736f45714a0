package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	eventsDomain "github.com/storyweave/syndication/internal/events/domain"
	registryDomain "github.com/storyweave/syndication/internal/registry/domain"
	"github.com/storyweave/syndication/internal/syndication/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockConsentRepository is a mock implementation of ConsentRepository
type MockConsentRepository struct {
	mock.Mock
}

func (m *MockConsentRepository) Create(ctx context.Context, consent *domain.Consent) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

func (m *MockConsentRepository) Get(ctx context.Context, consentID uuid.UUID) (*domain.Consent, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consent), args.Error(1)
}

func (m *MockConsentRepository) GetLive(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (*domain.Consent, error) {
	args := m.Called(ctx, contentType, contentID, siteID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consent), args.Error(1)
}

func (m *MockConsentRepository) GetLiveByContentAndSite(
	ctx context.Context,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (*domain.Consent, error) {
	args := m.Called(ctx, contentID, siteID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consent), args.Error(1)
}

func (m *MockConsentRepository) Update(ctx context.Context, consent *domain.Consent) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

func (m *MockConsentRepository) MarkRevoked(
	ctx context.Context,
	consentID uuid.UUID,
	reason string,
	revokedAt time.Time,
) (bool, error) {
	args := m.Called(ctx, consentID, reason, revokedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsentRepository) ExpireStale(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
	siteID uuid.UUID,
	now time.Time,
) (bool, error) {
	args := m.Called(ctx, contentType, contentID, siteID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsentRepository) ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *domain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Token, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

func (m *MockTokenRepository) ListByContentID(ctx context.Context, contentID string) ([]*domain.Token, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Token), args.Error(1)
}

func (m *MockTokenRepository) RevokeAllByConsent(
	ctx context.Context,
	consentID uuid.UUID,
	revokedAt time.Time,
) (int64, error) {
	args := m.Called(ctx, consentID, revokedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditEntryRepository is a mock implementation of AuditEntryRepository
type MockAuditEntryRepository struct {
	mock.Mock
}

func (m *MockAuditEntryRepository) Create(ctx context.Context, entry *domain.AccessAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditEntryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockSiteRepository is a mock implementation of SiteRepository
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) Get(ctx context.Context, siteID uuid.UUID) (*registryDomain.DestinationSite, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.DestinationSite), args.Error(1)
}

func (m *MockSiteRepository) GetBySlug(ctx context.Context, slug string) (*registryDomain.DestinationSite, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registryDomain.DestinationSite), args.Error(1)
}

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Get(
	ctx context.Context,
	contentType contentDomain.ContentType,
	contentID string,
) (*contentDomain.ContentItem, error) {
	args := m.Called(ctx, contentType, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentDomain.ContentItem), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *eventsDomain.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockTokenService is a mock implementation of service.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}

// MockTokenValidator is a mock implementation of TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, plainToken string) (*ValidateTokenResult, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ValidateTokenResult), args.Error(1)
}
