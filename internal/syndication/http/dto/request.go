// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// PermissionsRequest carries the permission flags of a consent request.
type PermissionsRequest struct {
	AllowFullContent bool `json:"allow_full_content"`
	AllowMediaAssets bool `json:"allow_media_assets"`
	AllowAnalytics   bool `json:"allow_analytics"`
}

// CreateConsentRequest contains the parameters for requesting syndication consent.
type CreateConsentRequest struct {
	ContentType     string             `json:"content_type"`
	ContentID       string             `json:"content_id"`
	DestinationSlug string             `json:"destination_slug"`
	Permissions     PermissionsRequest `json:"permissions"`
	PermissionLevel string             `json:"permission_level"`
	AttributionText string             `json:"attribution_text"`
	RequestReason   string             `json:"request_reason"`
}

// Validate checks the structural shape of the request. Enum and business
// validation happens in the use case.
func (r *CreateConsentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ContentType, validation.Required),
		validation.Field(&r.ContentID, validation.Required),
		validation.Field(&r.DestinationSlug, validation.Required),
		validation.Field(&r.PermissionLevel, validation.Required),
		validation.Field(&r.AttributionText, validation.Required),
	)
}

// RevokeConsentRequest contains the parameters for revoking a consent.
type RevokeConsentRequest struct {
	Reason string `json:"reason"`
}

// Validate checks if the revoke consent request is valid.
func (r *RevokeConsentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reason,
			validation.Required,
			validation.Length(1, 2000),
		),
	)
}
