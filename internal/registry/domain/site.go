// Package domain defines the destination site registry domain models.
// Destination sites are external, partially-trusted parties that may be
// granted read-only syndication access to content items.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SiteStatus represents the operational status of a destination site.
type SiteStatus string

const (
	// SiteStatusActive allows the site to receive new consents and redeem tokens.
	SiteStatusActive SiteStatus = "active"

	// SiteStatusSuspended blocks new grants; existing consents are treated as
	// unenforceable on next access even if not explicitly revoked.
	SiteStatusSuspended SiteStatus = "suspended"
)

// TrustTier controls how much ceremony a site's consent requests require.
type TrustTier string

const (
	// TrustTierStandard requires an explicit approval step before a consent activates.
	TrustTierStandard TrustTier = "standard"

	// TrustTierTrusted allows consents to activate immediately on creation.
	TrustTierTrusted TrustTier = "trusted"
)

// DestinationSite represents an external site registered for syndication.
// Sites are created out of band by platform operators.
type DestinationSite struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	Status    SiteStatus
	TrustTier TrustTier
	CreatedAt time.Time
}

// IsActive reports whether the site may receive new grants or serve existing ones.
func (s *DestinationSite) IsActive() bool {
	return s.Status == SiteStatusActive
}

// AutoApproves reports whether consents for this site skip the pending state.
func (s *DestinationSite) AutoApproves() bool {
	return s.TrustTier == TrustTierTrusted
}
