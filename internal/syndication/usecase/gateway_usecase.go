package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/storyweave/syndication/internal/errors"
	"github.com/storyweave/syndication/internal/syndication/domain"
)

// TokenValidator is the slice of TokenUseCase the gateway needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, plainToken string) (*ValidateTokenResult, error)
}

// gatewayUseCase serves content requests from destination sites. Every
// request is authorized against live consent state and recorded in the access
// audit, whether granted or denied.
type gatewayUseCase struct {
	tokenValidator TokenValidator
	contentRepo    ContentRepository
	auditRepo      AuditEntryRepository
	logger         *slog.Logger
}

// NewGatewayUseCase creates a new GatewayUseCase.
func NewGatewayUseCase(
	tokenValidator TokenValidator,
	contentRepo ContentRepository,
	auditRepo AuditEntryRepository,
	logger *slog.Logger,
) GatewayUseCase {
	return &gatewayUseCase{
		tokenValidator: tokenValidator,
		contentRepo:    contentRepo,
		auditRepo:      auditRepo,
		logger:         logger,
	}
}

// HandleContentRequest authorizes and serves a content fetch. The decision
// order is fixed: token validity, consent liveness, content binding, cultural
// permission gating, then permission-based field shaping.
func (uc *gatewayUseCase) HandleContentRequest(
	ctx context.Context,
	input ContentRequestInput,
) (*ContentView, error) {
	result, err := uc.tokenValidator.ValidateToken(ctx, input.PlainToken)
	if err != nil {
		switch {
		case apperrors.Is(err, domain.ErrInvalidToken):
			uc.audit(ctx, nil, input, domain.AccessOutcomeDeniedInvalidToken)
		case apperrors.Is(err, domain.ErrConsentNotActive):
			uc.audit(ctx, nil, input, domain.AccessOutcomeDeniedRevoked)
		}
		return nil, err
	}

	token := result.Token
	consent := result.Consent

	// A valid token presented against a different content item is treated as
	// an invalid credential, not as a policy decision.
	if consent.ContentID != input.ContentID {
		uc.audit(ctx, &token.ID, input, domain.AccessOutcomeDeniedInvalidToken)
		return nil, domain.ErrInvalidToken
	}

	content, err := uc.contentRepo.Get(ctx, consent.ContentType, input.ContentID)
	if err != nil {
		return nil, err
	}

	// Fail closed: sensitivity above the consented permission level denies,
	// including unknown levels on either side.
	if !consent.PermissionLevel.Covers(content.SensitivityLevel) {
		uc.audit(ctx, &token.ID, input, domain.AccessOutcomeDeniedCulturalPolicy)
		return nil, domain.ErrCulturalPolicyViolation
	}

	view := &ContentView{
		ContentType:     content.ContentType,
		ContentID:       content.ContentID,
		Title:           content.Title,
		Summary:         content.Summary,
		AttributionText: consent.AttributionText,
	}

	if consent.Permissions.AllowFullContent {
		body := content.Body
		view.Body = &body
	}
	if consent.Permissions.AllowMediaAssets {
		view.MediaURLs = content.MediaURLs
	}
	if consent.Permissions.AllowAnalytics {
		viewCount := content.ViewCount
		shareCount := content.ShareCount
		view.ViewCount = &viewCount
		view.ShareCount = &shareCount
	}

	uc.audit(ctx, &token.ID, input, domain.AccessOutcomeGranted)

	return view, nil
}

// audit records an access decision. Audit writes are best effort: a failed
// insert is logged and never blocks or fails the content request.
func (uc *gatewayUseCase) audit(
	ctx context.Context,
	tokenID *uuid.UUID,
	input ContentRequestInput,
	outcome domain.AccessOutcome,
) {
	entry := &domain.AccessAuditEntry{
		ID:        uuid.Must(uuid.NewV7()),
		TokenID:   tokenID,
		ContentID: input.ContentID,
		Outcome:   outcome,
		RequestID: input.RequestID,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.auditRepo.Create(ctx, entry); err != nil && uc.logger != nil {
		uc.logger.Error("failed to write access audit entry",
			slog.String("content_id", input.ContentID),
			slog.String("outcome", string(outcome)),
			slog.Any("error", err),
		)
	}
}
