package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storyweave/syndication/internal/metrics"
	"github.com/storyweave/syndication/internal/syndication/domain"
)

// consentUseCaseWithMetrics decorates ConsentUseCase with metrics instrumentation.
type consentUseCaseWithMetrics struct {
	next    ConsentUseCase
	metrics metrics.BusinessMetrics
}

// NewConsentUseCaseWithMetrics wraps a ConsentUseCase with metrics recording.
func NewConsentUseCaseWithMetrics(useCase ConsentUseCase, m metrics.BusinessMetrics) ConsentUseCase {
	return &consentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// CreateConsent records metrics for consent request operations.
func (c *consentUseCaseWithMetrics) CreateConsent(
	ctx context.Context,
	input CreateConsentInput,
) (*CreateConsentOutput, error) {
	start := time.Now()
	output, err := c.next.CreateConsent(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "consent_create", status)
	c.metrics.RecordDuration(ctx, "consent", "consent_create", time.Since(start), status)

	return output, err
}

// GetConsent records metrics for consent retrieval operations.
func (c *consentUseCaseWithMetrics) GetConsent(
	ctx context.Context,
	contentID, destinationSlug string,
) (*domain.Consent, error) {
	start := time.Now()
	consent, err := c.next.GetConsent(ctx, contentID, destinationSlug)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "consent_get", status)
	c.metrics.RecordDuration(ctx, "consent", "consent_get", time.Since(start), status)

	return consent, err
}

// ApproveConsent records metrics for consent approval operations.
func (c *consentUseCaseWithMetrics) ApproveConsent(
	ctx context.Context,
	consentID uuid.UUID,
) (*ApproveConsentOutput, error) {
	start := time.Now()
	output, err := c.next.ApproveConsent(ctx, consentID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "consent_approve", status)
	c.metrics.RecordDuration(ctx, "consent", "consent_approve", time.Since(start), status)

	return output, err
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ValidateToken records metrics for token validation operations.
func (t *tokenUseCaseWithMetrics) ValidateToken(
	ctx context.Context,
	plainToken string,
) (*ValidateTokenResult, error) {
	start := time.Now()
	result, err := t.next.ValidateToken(ctx, plainToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_validate", status)
	t.metrics.RecordDuration(ctx, "token", "token_validate", time.Since(start), status)

	return result, err
}

// ListTokens records metrics for token list operations.
func (t *tokenUseCaseWithMetrics) ListTokens(
	ctx context.Context,
	contentID string,
) ([]*domain.Token, error) {
	start := time.Now()
	tokens, err := t.next.ListTokens(ctx, contentID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_list", status)
	t.metrics.RecordDuration(ctx, "token", "token_list", time.Since(start), status)

	return tokens, err
}

// revocationUseCaseWithMetrics decorates RevocationUseCase with metrics instrumentation.
type revocationUseCaseWithMetrics struct {
	next    RevocationUseCase
	metrics metrics.BusinessMetrics
}

// NewRevocationUseCaseWithMetrics wraps a RevocationUseCase with metrics recording.
func NewRevocationUseCaseWithMetrics(useCase RevocationUseCase, m metrics.BusinessMetrics) RevocationUseCase {
	return &revocationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RevokeConsent records metrics for revocation operations.
func (r *revocationUseCaseWithMetrics) RevokeConsent(
	ctx context.Context,
	consentID uuid.UUID,
	reason string,
) (*RevokeConsentOutput, error) {
	start := time.Now()
	output, err := r.next.RevokeConsent(ctx, consentID, reason)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "consent", "consent_revoke", status)
	r.metrics.RecordDuration(ctx, "consent", "consent_revoke", time.Since(start), status)

	return output, err
}

// ExpireConsents records metrics for expiry sweep operations.
func (r *revocationUseCaseWithMetrics) ExpireConsents(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	start := time.Now()
	count, err := r.next.ExpireConsents(ctx, now)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "consent", "consent_expire", status)
	r.metrics.RecordDuration(ctx, "consent", "consent_expire", time.Since(start), status)

	return count, err
}

// gatewayUseCaseWithMetrics decorates GatewayUseCase with metrics instrumentation.
type gatewayUseCaseWithMetrics struct {
	next    GatewayUseCase
	metrics metrics.BusinessMetrics
}

// NewGatewayUseCaseWithMetrics wraps a GatewayUseCase with metrics recording.
func NewGatewayUseCaseWithMetrics(useCase GatewayUseCase, m metrics.BusinessMetrics) GatewayUseCase {
	return &gatewayUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// HandleContentRequest records metrics for content gateway operations.
func (g *gatewayUseCaseWithMetrics) HandleContentRequest(
	ctx context.Context,
	input ContentRequestInput,
) (*ContentView, error) {
	start := time.Now()
	view, err := g.next.HandleContentRequest(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "gateway", "content_request", status)
	g.metrics.RecordDuration(ctx, "gateway", "content_request", time.Since(start), status)

	return view, err
}
