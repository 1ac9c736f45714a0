// Package usecase implements destination site registry operations.
// Sites are managed out of band by platform operators through the CLI.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/validation"

	"github.com/storyweave/syndication/internal/registry/domain"
	appValidation "github.com/storyweave/syndication/internal/validation"
)

// SiteRepository defines the persistence interface for destination sites.
type SiteRepository interface {
	Create(ctx context.Context, site *domain.DestinationSite) error
	Get(ctx context.Context, siteID uuid.UUID) (*domain.DestinationSite, error)
	GetBySlug(ctx context.Context, slug string) (*domain.DestinationSite, error)
	UpdateStatus(ctx context.Context, siteID uuid.UUID, status domain.SiteStatus) error
}

// CreateSiteInput contains the fields required to register a destination site.
type CreateSiteInput struct {
	Slug      string
	Name      string
	TrustTier string
}

// SiteUseCase defines the operations available to platform operators.
type SiteUseCase interface {
	CreateSite(ctx context.Context, input CreateSiteInput) (*domain.DestinationSite, error)
	SuspendSite(ctx context.Context, slug string) (*domain.DestinationSite, error)
}

type siteUseCase struct {
	siteRepo SiteRepository
}

// NewSiteUseCase creates a new SiteUseCase.
func NewSiteUseCase(siteRepo SiteRepository) SiteUseCase {
	return &siteUseCase{siteRepo: siteRepo}
}

func (uc *siteUseCase) validateCreateSiteInput(input CreateSiteInput) error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Slug,
			validation.Required.Error("slug is required"),
			appValidation.Slug,
		),
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&input.TrustTier,
			validation.Required.Error("trust_tier is required"),
			validation.In(
				string(domain.TrustTierStandard),
				string(domain.TrustTierTrusted),
			).Error("trust_tier must be standard or trusted"),
		),
	)
}

// CreateSite registers a new destination site in active status.
func (uc *siteUseCase) CreateSite(
	ctx context.Context,
	input CreateSiteInput,
) (*domain.DestinationSite, error) {
	if err := uc.validateCreateSiteInput(input); err != nil {
		return nil, err
	}

	site := &domain.DestinationSite{
		ID:        uuid.Must(uuid.NewV7()),
		Slug:      input.Slug,
		Name:      input.Name,
		Status:    domain.SiteStatusActive,
		TrustTier: domain.TrustTier(input.TrustTier),
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.siteRepo.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to create destination site: %w", err)
	}

	return site, nil
}

// SuspendSite marks a destination site as suspended. Suspended sites are
// rejected on consent creation and token redemption alike.
func (uc *siteUseCase) SuspendSite(
	ctx context.Context,
	slug string,
) (*domain.DestinationSite, error) {
	site, err := uc.siteRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination site: %w", err)
	}

	if err := uc.siteRepo.UpdateStatus(ctx, site.ID, domain.SiteStatusSuspended); err != nil {
		return nil, fmt.Errorf("failed to suspend destination site: %w", err)
	}

	site.Status = domain.SiteStatusSuspended
	return site, nil
}
