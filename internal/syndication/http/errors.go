// Package http provides HTTP handlers for the syndication API: consent
// lifecycle, capability token listing and the content access gateway.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyweave/syndication/internal/httputil"
	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/http/dto"
)

// consentConflictResponse reports a duplicate consent request together with
// the live record that already holds the slot.
type consentConflictResponse struct {
	Error           string              `json:"error"`
	Message         string              `json:"message"`
	ExistingConsent dto.ConsentResponse `json:"existing_consent"`
}

// handleSyndicationError maps syndication domain errors to their taxonomy
// codes before falling back to the generic base-error mapping. Denials expose
// only the code; they never say which internal check failed.
func handleSyndicationError(c *gin.Context, err error, logger *slog.Logger) {
	var conflict *domain.ConsentConflictError
	if errors.As(err, &conflict) {
		if logger != nil {
			logger.Warn("consent conflict",
				slog.String("existing_consent_id", conflict.Existing.ID.String()),
			)
		}
		c.JSON(http.StatusConflict, consentConflictResponse{
			Error:           "consent_already_exists",
			Message:         "A live consent already exists for this content and destination",
			ExistingConsent: dto.MapConsentToResponse(conflict.Existing),
		})
		return
	}

	var statusCode int
	var response httputil.ErrorResponse

	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		statusCode = http.StatusUnauthorized
		response = httputil.ErrorResponse{
			Error:   "invalid_token",
			Message: "The presented token is not valid",
		}
	case errors.Is(err, domain.ErrConsentNotActive):
		statusCode = http.StatusForbidden
		response = httputil.ErrorResponse{
			Error:   "consent_not_active",
			Message: "The consent backing this token is not active",
		}
	case errors.Is(err, domain.ErrCulturalPolicyViolation):
		statusCode = http.StatusForbidden
		response = httputil.ErrorResponse{
			Error:   "cultural_policy_violation",
			Message: "The content's cultural sensitivity exceeds the consented permission level",
		}
	case errors.Is(err, domain.ErrUnknownDestination):
		statusCode = http.StatusNotFound
		response = httputil.ErrorResponse{
			Error:   "unknown_destination",
			Message: "The destination site is not registered or not active",
		}
	case errors.Is(err, domain.ErrInvalidTransition):
		statusCode = http.StatusConflict
		response = httputil.ErrorResponse{
			Error:   "invalid_transition",
			Message: "The consent is not in a state that allows this operation",
		}
	default:
		httputil.HandleErrorGin(c, err, logger)
		return
	}

	if logger != nil {
		logger.Warn("request denied",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}
