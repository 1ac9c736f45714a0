package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/storyweave/syndication/internal/errors"
	registryDomain "github.com/storyweave/syndication/internal/registry/domain"
	"github.com/storyweave/syndication/internal/syndication/domain"
)

type tokenUseCaseMocks struct {
	consentRepo  *MockConsentRepository
	siteRepo     *MockSiteRepository
	tokenRepo    *MockTokenRepository
	tokenService *MockTokenService
}

func newTokenUseCase() (TokenUseCase, *tokenUseCaseMocks) {
	m := &tokenUseCaseMocks{
		consentRepo:  &MockConsentRepository{},
		siteRepo:     &MockSiteRepository{},
		tokenRepo:    &MockTokenRepository{},
		tokenService: &MockTokenService{},
	}
	return NewTokenUseCase(m.consentRepo, m.siteRepo, m.tokenRepo, m.tokenService), m
}

func TestTokenUseCase_ValidateToken_Success(t *testing.T) {
	uc, m := newTokenUseCase()
	ctx := context.Background()

	site := activeSite(registryDomain.TrustTierStandard)
	consentID := uuid.Must(uuid.NewV7())
	token := &domain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "hash-value",
		ConsentID: consentID,
		CreatedAt: time.Now().UTC(),
	}
	future := time.Now().UTC().Add(time.Hour)
	consent := &domain.Consent{
		ID:                consentID,
		ContentID:         "S1",
		DestinationSiteID: site.ID,
		Status:            domain.ConsentStatusActive,
		ExpiresAt:         &future,
	}

	m.tokenService.On("HashToken", "plain-token").Return("hash-value")
	m.tokenRepo.On("GetByTokenHash", ctx, "hash-value").Return(token, nil)
	m.consentRepo.On("Get", ctx, consentID).Return(consent, nil)
	m.siteRepo.On("Get", ctx, site.ID).Return(site, nil)

	result, err := uc.ValidateToken(ctx, "plain-token")
	require.NoError(t, err)
	assert.Equal(t, token.ID, result.Token.ID)
	assert.Equal(t, consentID, result.Consent.ID)
}

func TestTokenUseCase_ValidateToken_UnknownToken(t *testing.T) {
	uc, m := newTokenUseCase()
	ctx := context.Background()

	m.tokenService.On("HashToken", "bogus").Return("bogus-hash")
	m.tokenRepo.On("GetByTokenHash", ctx, "bogus-hash").Return(nil, domain.ErrTokenNotFound)

	result, err := uc.ValidateToken(ctx, "bogus")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestTokenUseCase_ValidateToken_EmptyToken(t *testing.T) {
	uc, _ := newTokenUseCase()

	result, err := uc.ValidateToken(context.Background(), "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenUseCase_ValidateToken_RevokedToken(t *testing.T) {
	uc, m := newTokenUseCase()
	ctx := context.Background()

	revokedAt := time.Now().UTC().Add(-time.Hour)
	token := &domain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "hash-value",
		ConsentID: uuid.Must(uuid.NewV7()),
		RevokedAt: &revokedAt,
	}

	m.tokenService.On("HashToken", "plain-token").Return("hash-value")
	m.tokenRepo.On("GetByTokenHash", ctx, "hash-value").Return(token, nil)

	result, err := uc.ValidateToken(ctx, "plain-token")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrConsentNotActive)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestTokenUseCase_ValidateToken_ConsentNotActive(t *testing.T) {
	uc, m := newTokenUseCase()
	ctx := context.Background()

	consentID := uuid.Must(uuid.NewV7())
	token := &domain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "hash-value",
		ConsentID: consentID,
	}

	m.tokenService.On("HashToken", "plain-token").Return("hash-value")
	m.tokenRepo.On("GetByTokenHash", ctx, "hash-value").Return(token, nil)

	t.Run("Revoked", func(t *testing.T) {
		m.consentRepo.On("Get", ctx, consentID).
			Return(&domain.Consent{ID: consentID, Status: domain.ConsentStatusRevoked}, nil).Once()

		result, err := uc.ValidateToken(ctx, "plain-token")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrConsentNotActive)
	})

	t.Run("ExpiredByTTL", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Minute)
		m.consentRepo.On("Get", ctx, consentID).
			Return(&domain.Consent{
				ID:        consentID,
				Status:    domain.ConsentStatusActive,
				ExpiresAt: &past,
			}, nil).Once()

		result, err := uc.ValidateToken(ctx, "plain-token")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrConsentNotActive)
	})

	t.Run("StillPending", func(t *testing.T) {
		m.consentRepo.On("Get", ctx, consentID).
			Return(&domain.Consent{ID: consentID, Status: domain.ConsentStatusPending}, nil).Once()

		result, err := uc.ValidateToken(ctx, "plain-token")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrConsentNotActive)
	})
}

// A site suspension must deny redemption on the very next request even though
// the consent row itself is still stored as active.
func TestTokenUseCase_ValidateToken_SuspendedSite(t *testing.T) {
	uc, m := newTokenUseCase()
	ctx := context.Background()

	site := activeSite(registryDomain.TrustTierStandard)
	site.Status = registryDomain.SiteStatusSuspended

	consentID := uuid.Must(uuid.NewV7())
	token := &domain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "hash-value",
		ConsentID: consentID,
	}
	consent := &domain.Consent{
		ID:                consentID,
		ContentID:         "S1",
		DestinationSiteID: site.ID,
		Status:            domain.ConsentStatusActive,
	}

	m.tokenService.On("HashToken", "plain-token").Return("hash-value")
	m.tokenRepo.On("GetByTokenHash", ctx, "hash-value").Return(token, nil)
	m.consentRepo.On("Get", ctx, consentID).Return(consent, nil)
	m.siteRepo.On("Get", ctx, site.ID).Return(site, nil)

	result, err := uc.ValidateToken(ctx, "plain-token")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrConsentNotActive)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestTokenUseCase_ListTokens(t *testing.T) {
	uc, m := newTokenUseCase()
	ctx := context.Background()

	revokedAt := time.Now().UTC()
	tokens := []*domain.Token{
		{ID: uuid.Must(uuid.NewV7()), TokenHash: "hash-a"},
		{ID: uuid.Must(uuid.NewV7()), TokenHash: "hash-b", RevokedAt: &revokedAt},
	}

	m.tokenRepo.On("ListByContentID", ctx, "S1").Return(tokens, nil)

	got, err := uc.ListTokens(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "active", got[0].Status())
	assert.Equal(t, "revoked", got[1].Status())
}
