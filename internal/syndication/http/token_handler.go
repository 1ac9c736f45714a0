package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyweave/syndication/internal/httputil"
	"github.com/storyweave/syndication/internal/syndication/http/dto"
	"github.com/storyweave/syndication/internal/syndication/usecase"
)

// TokenHandler handles HTTP requests for capability token visibility.
type TokenHandler struct {
	tokenUseCase usecase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase usecase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// ListHandler lists all tokens ever issued for a content item so owners can
// see which grants exist. Plaintext values are never included.
// GET /v1/syndication/tokens?content_id=S1
func (h *TokenHandler) ListHandler(c *gin.Context) {
	contentID := c.Query("content_id")
	if contentID == "" {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("content_id query parameter is required"),
			h.logger,
		)
		return
	}

	tokens, err := h.tokenUseCase.ListTokens(c.Request.Context(), contentID)
	if err != nil {
		handleSyndicationError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokensToListResponse(tokens))
}
