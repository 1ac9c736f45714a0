package usecase

import (
	"context"
	"time"

	apperrors "github.com/storyweave/syndication/internal/errors"
	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/service"
)

// tokenUseCase handles capability token validation and listing.
type tokenUseCase struct {
	consentRepo  ConsentRepository
	siteRepo     SiteRepository
	tokenRepo    TokenRepository
	tokenService service.TokenService
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(
	consentRepo ConsentRepository,
	siteRepo SiteRepository,
	tokenRepo TokenRepository,
	tokenService service.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		consentRepo:  consentRepo,
		siteRepo:     siteRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
	}
}

// ValidateToken checks a presented token end to end: the hash must resolve to
// a stored token, the token must not be individually revoked, the owning
// consent must be effectively active right now, and the destination site must
// not be suspended. The consent and site are always re-read so a revocation or
// suspension committed a moment ago denies the very next request.
func (uc *tokenUseCase) ValidateToken(ctx context.Context, plainToken string) (*ValidateTokenResult, error) {
	if plainToken == "" {
		return nil, domain.ErrInvalidToken
	}

	hash := uc.tokenService.HashToken(plainToken)

	token, err := uc.tokenRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	if token.IsRevoked() {
		return nil, domain.ErrConsentNotActive
	}

	consent, err := uc.consentRepo.Get(ctx, token.ConsentID)
	if err != nil {
		return nil, err
	}

	if consent.EffectiveStatus(time.Now().UTC()) != domain.ConsentStatusActive {
		return nil, domain.ErrConsentNotActive
	}

	site, err := uc.siteRepo.Get(ctx, consent.DestinationSiteID)
	if err != nil {
		return nil, err
	}

	if !site.IsActive() {
		return nil, domain.ErrConsentNotActive
	}

	return &ValidateTokenResult{Token: token, Consent: consent}, nil
}

// ListTokens returns all tokens ever issued for a content item, so owners can
// see which grants exist and which have been revoked. Hashes are included;
// plaintext values are not recoverable.
func (uc *tokenUseCase) ListTokens(ctx context.Context, contentID string) ([]*domain.Token, error) {
	return uc.tokenRepo.ListByContentID(ctx, contentID)
}
