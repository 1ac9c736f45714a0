package dto

import (
	"time"

	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/usecase"
)

// PermissionsResponse mirrors the permission flags of a consent.
type PermissionsResponse struct {
	AllowFullContent bool `json:"allow_full_content"`
	AllowMediaAssets bool `json:"allow_media_assets"`
	AllowAnalytics   bool `json:"allow_analytics"`
}

// ConsentResponse represents a consent record in API responses.
type ConsentResponse struct {
	ID                string              `json:"id"`
	ContentType       string              `json:"content_type"`
	ContentID         string              `json:"content_id"`
	DestinationSiteID string              `json:"destination_site_id"`
	Status            string              `json:"status"`
	Permissions       PermissionsResponse `json:"permissions"`
	PermissionLevel   string              `json:"permission_level"`
	AttributionText   string              `json:"attribution_text"`
	RequestReason     string              `json:"request_reason,omitempty"`
	ExpiresAt         *time.Time          `json:"expires_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	RevokedAt         *time.Time          `json:"revoked_at,omitempty"`
	RevokedReason     string              `json:"revoked_reason,omitempty"`
}

// CreateConsentResponse is returned when a consent request is registered.
// Token is present only for auto-approved consents and is never shown again.
type CreateConsentResponse struct {
	Consent      ConsentResponse `json:"consent"`
	Token        string          `json:"embed_token,omitempty"`
	AutoApproved bool            `json:"auto_approved"`
}

// GetConsentResponse reports whether a live consent covers a content item and
// destination pair.
type GetConsentResponse struct {
	Exists  bool             `json:"exists"`
	Consent *ConsentResponse `json:"consent,omitempty"`
}

// ApproveConsentResponse is returned when a pending consent is approved.
// Token is the one-time plaintext of the issued capability token.
type ApproveConsentResponse struct {
	Consent ConsentResponse `json:"consent"`
	Token   string          `json:"embed_token"`
}

// RevokeConsentResponse is returned after a revocation request. The count is
// zero when the consent was already inactive.
type RevokeConsentResponse struct {
	ConsentID     string `json:"consent_id"`
	Status        string `json:"status"`
	TokensRevoked int64  `json:"tokens_revoked"`
}

// TokenResponse represents a capability token in API responses. Neither the
// plaintext value nor the storage hash is ever exposed here.
type TokenResponse struct {
	ID        string     `json:"id"`
	ConsentID string     `json:"consent_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// ListTokensResponse wraps a token listing.
type ListTokensResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}

// ContentResponse is the permission-shaped content representation served to a
// destination site.
type ContentResponse struct {
	ContentType     string   `json:"content_type"`
	ContentID       string   `json:"content_id"`
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Body            *string  `json:"body,omitempty"`
	MediaURLs       []string `json:"media_urls,omitempty"`
	ViewCount       *int64   `json:"view_count,omitempty"`
	ShareCount      *int64   `json:"share_count,omitempty"`
	AttributionText string   `json:"attribution_text"`
}

// MapConsentToResponse converts a domain consent to an API response.
func MapConsentToResponse(consent *domain.Consent) ConsentResponse {
	return ConsentResponse{
		ID:                consent.ID.String(),
		ContentType:       string(consent.ContentType),
		ContentID:         consent.ContentID,
		DestinationSiteID: consent.DestinationSiteID.String(),
		Status:            string(consent.Status),
		Permissions: PermissionsResponse{
			AllowFullContent: consent.Permissions.AllowFullContent,
			AllowMediaAssets: consent.Permissions.AllowMediaAssets,
			AllowAnalytics:   consent.Permissions.AllowAnalytics,
		},
		PermissionLevel: string(consent.PermissionLevel),
		AttributionText: consent.AttributionText,
		RequestReason:   consent.RequestReason,
		ExpiresAt:       consent.ExpiresAt,
		CreatedAt:       consent.CreatedAt,
		RevokedAt:       consent.RevokedAt,
		RevokedReason:   consent.RevokedReason,
	}
}

// MapTokensToListResponse converts domain tokens to a listing response.
func MapTokensToListResponse(tokens []*domain.Token) ListTokensResponse {
	responses := make([]TokenResponse, 0, len(tokens))
	for _, token := range tokens {
		responses = append(responses, TokenResponse{
			ID:        token.ID.String(),
			ConsentID: token.ConsentID.String(),
			Status:    token.Status(),
			CreatedAt: token.CreatedAt,
			RevokedAt: token.RevokedAt,
		})
	}
	return ListTokensResponse{Tokens: responses}
}

// MapContentViewToResponse converts a gateway content view to an API response.
func MapContentViewToResponse(view *usecase.ContentView) ContentResponse {
	return ContentResponse{
		ContentType:     string(view.ContentType),
		ContentID:       view.ContentID,
		Title:           view.Title,
		Summary:         view.Summary,
		Body:            view.Body,
		MediaURLs:       view.MediaURLs,
		ViewCount:       view.ViewCount,
		ShareCount:      view.ShareCount,
		AttributionText: view.AttributionText,
	}
}
