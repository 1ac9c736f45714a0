package domain

import (
	"time"

	"github.com/google/uuid"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
)

// Permissions is the field-level scope carried by a consent record.
type Permissions struct {
	// AllowFullContent exposes the full content body; otherwise only the summary is served.
	AllowFullContent bool `json:"allow_full_content"`
	// AllowMediaAssets exposes media URLs attached to the content item.
	AllowMediaAssets bool `json:"allow_media_assets"`
	// AllowAnalytics exposes engagement counters (views, shares).
	AllowAnalytics bool `json:"allow_analytics"`
}

// Consent is the authoritative grant of syndication access for one
// (content item, destination site) pair. At most one consent in a
// non-revoked, non-expired state may exist per pair; the storage layer
// enforces this with a live-uniqueness constraint.
type Consent struct {
	ID                uuid.UUID
	ContentType       contentDomain.ContentType
	ContentID         string
	DestinationSiteID uuid.UUID
	Status            ConsentStatus
	Permissions       Permissions
	PermissionLevel   PermissionLevel
	AttributionText   string
	RequestReason     string
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	RevokedAt         *time.Time
	RevokedReason     string
}

// EffectiveStatus returns the consent's status with lazy expiry applied: an
// active consent whose TTL has elapsed is reported as expired even before the
// hygiene sweep persists the transition. Correctness never depends on the sweep.
func (c *Consent) EffectiveStatus(now time.Time) ConsentStatus {
	if c.Status == ConsentStatusActive && c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return ConsentStatusExpired
	}
	return c.Status
}

// IsLive reports whether the consent still occupies the uniqueness slot for
// its (content, site) pair, i.e. it is pending or effectively active.
func (c *Consent) IsLive(now time.Time) bool {
	status := c.EffectiveStatus(now)
	return status == ConsentStatusPending || status == ConsentStatusActive
}

// CanApprove reports whether an explicit approval is a legal transition.
// Only pending consents can be approved.
func (c *Consent) CanApprove() bool {
	return c.Status == ConsentStatusPending
}
