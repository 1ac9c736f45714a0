package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	eventsDomain "github.com/storyweave/syndication/internal/events/domain"
	"github.com/storyweave/syndication/internal/syndication/domain"
)

func newRevocationUseCase() (RevocationUseCase, *MockTxManager, *MockConsentRepository, *MockTokenRepository, *MockEventRepository) {
	txManager := &MockTxManager{}
	consentRepo := &MockConsentRepository{}
	tokenRepo := &MockTokenRepository{}
	eventRepo := &MockEventRepository{}
	return NewRevocationUseCase(txManager, consentRepo, tokenRepo, eventRepo),
		txManager, consentRepo, tokenRepo, eventRepo
}

func TestRevocationUseCase_RevokeConsent_ActiveConsent(t *testing.T) {
	uc, txManager, consentRepo, tokenRepo, eventRepo := newRevocationUseCase()
	ctx := context.Background()

	consentID := uuid.Must(uuid.NewV7())
	consent := &domain.Consent{
		ID:                consentID,
		ContentType:       contentDomain.ContentTypeStory,
		ContentID:         "S1",
		DestinationSiteID: uuid.Must(uuid.NewV7()),
		Status:            domain.ConsentStatusActive,
	}

	consentRepo.On("Get", ctx, consentID).Return(consent, nil)
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	consentRepo.On("MarkRevoked", ctx, consentID, "family request", mock.AnythingOfType("time.Time")).
		Return(true, nil)
	tokenRepo.On("RevokeAllByConsent", ctx, consentID, mock.AnythingOfType("time.Time")).
		Return(int64(2), nil)
	eventRepo.On("Create", ctx, mock.MatchedBy(func(e *eventsDomain.LifecycleEvent) bool {
		return e.EventType == eventsDomain.EventTypeConsentRevoked
	})).Return(nil)

	output, err := uc.RevokeConsent(ctx, consentID, "family request")
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.TokensRevoked)
	assert.Equal(t, domain.ConsentStatusRevoked, output.Consent.Status)
	assert.Equal(t, "family request", output.Consent.RevokedReason)
	assert.NotNil(t, output.Consent.RevokedAt)
	eventRepo.AssertExpectations(t)
}

func TestRevocationUseCase_RevokeConsent_AlreadyRevokedIsIdempotent(t *testing.T) {
	uc, txManager, consentRepo, tokenRepo, eventRepo := newRevocationUseCase()
	ctx := context.Background()

	consentID := uuid.Must(uuid.NewV7())
	earlier := time.Now().UTC().Add(-time.Hour)
	consent := &domain.Consent{
		ID:            consentID,
		ContentID:     "S1",
		Status:        domain.ConsentStatusRevoked,
		RevokedAt:     &earlier,
		RevokedReason: "first revocation",
	}

	consentRepo.On("Get", ctx, consentID).Return(consent, nil)
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	consentRepo.On("MarkRevoked", ctx, consentID, "again", mock.AnythingOfType("time.Time")).
		Return(false, nil)

	output, err := uc.RevokeConsent(ctx, consentID, "again")
	require.NoError(t, err)

	assert.Equal(t, int64(0), output.TokensRevoked)
	assert.Equal(t, domain.ConsentStatusRevoked, output.Consent.Status)
	assert.Equal(t, "first revocation", output.Consent.RevokedReason)
	tokenRepo.AssertNotCalled(t, "RevokeAllByConsent", mock.Anything, mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRevocationUseCase_RevokeConsent_NotFound(t *testing.T) {
	uc, _, consentRepo, _, _ := newRevocationUseCase()
	ctx := context.Background()

	consentID := uuid.Must(uuid.NewV7())
	consentRepo.On("Get", ctx, consentID).Return(nil, domain.ErrConsentNotFound)

	output, err := uc.RevokeConsent(ctx, consentID, "reason")
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domain.ErrConsentNotFound)
}

func TestRevocationUseCase_ExpireConsents(t *testing.T) {
	uc, txManager, consentRepo, tokenRepo, eventRepo := newRevocationUseCase()
	ctx := context.Background()
	now := time.Now().UTC()

	expiredA := uuid.Must(uuid.NewV7())
	expiredB := uuid.Must(uuid.NewV7())

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	consentRepo.On("ExpireDue", ctx, now).Return([]uuid.UUID{expiredA, expiredB}, nil)
	tokenRepo.On("RevokeAllByConsent", ctx, expiredA, now).Return(int64(1), nil)
	tokenRepo.On("RevokeAllByConsent", ctx, expiredB, now).Return(int64(3), nil)
	consentRepo.On("Get", ctx, expiredA).
		Return(&domain.Consent{ID: expiredA, ContentID: "S1", Status: domain.ConsentStatusExpired}, nil)
	consentRepo.On("Get", ctx, expiredB).
		Return(&domain.Consent{ID: expiredB, ContentID: "S2", Status: domain.ConsentStatusExpired}, nil)
	eventRepo.On("Create", ctx, mock.MatchedBy(func(e *eventsDomain.LifecycleEvent) bool {
		return e.EventType == eventsDomain.EventTypeConsentExpired
	})).Return(nil).Times(2)

	count, err := uc.ExpireConsents(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	eventRepo.AssertExpectations(t)
}

func TestRevocationUseCase_ExpireConsents_NothingDue(t *testing.T) {
	uc, txManager, consentRepo, _, _ := newRevocationUseCase()
	ctx := context.Background()
	now := time.Now().UTC()

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	consentRepo.On("ExpireDue", ctx, now).Return([]uuid.UUID{}, nil)

	count, err := uc.ExpireConsents(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
