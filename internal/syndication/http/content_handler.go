package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/http/dto"
	"github.com/storyweave/syndication/internal/syndication/usecase"
)

// ContentHandler is the public content access gateway endpoint used by
// destination sites.
type ContentHandler struct {
	gatewayUseCase usecase.GatewayUseCase
	logger         *slog.Logger
}

// NewContentHandler creates a new content handler with required dependencies.
func NewContentHandler(gatewayUseCase usecase.GatewayUseCase, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		gatewayUseCase: gatewayUseCase,
		logger:         logger,
	}
}

// GetHandler serves a content item to a destination site presenting a
// capability token as a Bearer credential.
// GET /v1/syndication/content/:contentId
// A missing or malformed Authorization header is indistinguishable from an
// unknown token: both return 401 invalid_token.
func (h *ContentHandler) GetHandler(c *gin.Context) {
	plainToken, ok := extractBearerToken(c.GetHeader("Authorization"))
	if !ok {
		handleSyndicationError(c, domain.ErrInvalidToken, h.logger)
		return
	}

	view, err := h.gatewayUseCase.HandleContentRequest(c.Request.Context(), usecase.ContentRequestInput{
		PlainToken: plainToken,
		ContentID:  c.Param("contentId"),
		RequestID:  requestid.Get(c),
	})
	if err != nil {
		handleSyndicationError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapContentViewToResponse(view))
}

// extractBearerToken pulls the token value out of an Authorization header.
func extractBearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}
