package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/storyweave/syndication/internal/errors"
	"github.com/storyweave/syndication/internal/httputil"
	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/http/dto"
	"github.com/storyweave/syndication/internal/syndication/usecase"
	customValidation "github.com/storyweave/syndication/internal/validation"
)

// ConsentHandler handles HTTP requests for the consent lifecycle.
type ConsentHandler struct {
	consentUseCase    usecase.ConsentUseCase
	revocationUseCase usecase.RevocationUseCase
	logger            *slog.Logger
}

// NewConsentHandler creates a new consent handler with required dependencies.
func NewConsentHandler(
	consentUseCase usecase.ConsentUseCase,
	revocationUseCase usecase.RevocationUseCase,
	logger *slog.Logger,
) *ConsentHandler {
	return &ConsentHandler{
		consentUseCase:    consentUseCase,
		revocationUseCase: revocationUseCase,
		logger:            logger,
	}
}

// CreateHandler registers a syndication consent request.
// POST /v1/syndication/consent
// Returns 201 Created; auto-approved consents include the one-time token.
// Returns 409 with the existing record when a live consent already covers the
// content and destination pair.
func (h *ConsentHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateConsentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.consentUseCase.CreateConsent(c.Request.Context(), usecase.CreateConsentInput{
		ContentType:     req.ContentType,
		ContentID:       req.ContentID,
		DestinationSlug: req.DestinationSlug,
		Permissions: domain.Permissions{
			AllowFullContent: req.Permissions.AllowFullContent,
			AllowMediaAssets: req.Permissions.AllowMediaAssets,
			AllowAnalytics:   req.Permissions.AllowAnalytics,
		},
		PermissionLevel: req.PermissionLevel,
		AttributionText: req.AttributionText,
		RequestReason:   req.RequestReason,
	})
	if err != nil {
		handleSyndicationError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateConsentResponse{
		Consent:      dto.MapConsentToResponse(output.Consent),
		Token:        output.PlainToken,
		AutoApproved: output.AutoApproved,
	})
}

// GetHandler retrieves the live consent for a content item and destination.
// GET /v1/syndication/consent?content_id=S1&destination_site_slug=justicehub
// Always returns 200 for known destinations; the body reports whether a live
// consent exists. Status reflects lazy expiry.
func (h *ConsentHandler) GetHandler(c *gin.Context) {
	contentID := c.Query("content_id")
	destinationSlug := c.Query("destination_site_slug")

	if contentID == "" || destinationSlug == "" {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("content_id and destination_site_slug query parameters are required"),
			h.logger,
		)
		return
	}

	consent, err := h.consentUseCase.GetConsent(c.Request.Context(), contentID, destinationSlug)
	if err != nil {
		if apperrors.Is(err, domain.ErrConsentNotFound) {
			c.JSON(http.StatusOK, dto.GetConsentResponse{Exists: false})
			return
		}
		handleSyndicationError(c, err, h.logger)
		return
	}

	response := dto.MapConsentToResponse(consent)
	c.JSON(http.StatusOK, dto.GetConsentResponse{Exists: true, Consent: &response})
}

// ApproveHandler approves a pending consent and issues its first token.
// POST /v1/syndication/consent/:id/approve
// Returns 200 OK with the one-time token; 409 when the consent is not pending.
func (h *ConsentHandler) ApproveHandler(c *gin.Context) {
	consentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.consentUseCase.ApproveConsent(c.Request.Context(), consentID)
	if err != nil {
		handleSyndicationError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ApproveConsentResponse{
		Consent: dto.MapConsentToResponse(output.Consent),
		Token:   output.PlainToken,
	})
}

// RevokeHandler revokes a consent and all its tokens.
// POST /v1/syndication/consent/:id/revoke
// Revoking an already inactive consent returns 200 with tokens_revoked 0.
func (h *ConsentHandler) RevokeHandler(c *gin.Context) {
	consentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.RevokeConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.revocationUseCase.RevokeConsent(c.Request.Context(), consentID, req.Reason)
	if err != nil {
		handleSyndicationError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RevokeConsentResponse{
		ConsentID:     output.Consent.ID.String(),
		Status:        string(output.Consent.Status),
		TokensRevoked: output.TokensRevoked,
	})
}
