// Package mocks provides testify mocks for the syndication use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/usecase"
)

// MockConsentUseCase is a mock implementation of usecase.ConsentUseCase.
type MockConsentUseCase struct {
	mock.Mock
}

func (m *MockConsentUseCase) CreateConsent(
	ctx context.Context,
	input usecase.CreateConsentInput,
) (*usecase.CreateConsentOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateConsentOutput), args.Error(1)
}

func (m *MockConsentUseCase) GetConsent(
	ctx context.Context,
	contentID, destinationSlug string,
) (*domain.Consent, error) {
	args := m.Called(ctx, contentID, destinationSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consent), args.Error(1)
}

func (m *MockConsentUseCase) ApproveConsent(
	ctx context.Context,
	consentID uuid.UUID,
) (*usecase.ApproveConsentOutput, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ApproveConsentOutput), args.Error(1)
}

// MockRevocationUseCase is a mock implementation of usecase.RevocationUseCase.
type MockRevocationUseCase struct {
	mock.Mock
}

func (m *MockRevocationUseCase) RevokeConsent(
	ctx context.Context,
	consentID uuid.UUID,
	reason string,
) (*usecase.RevokeConsentOutput, error) {
	args := m.Called(ctx, consentID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RevokeConsentOutput), args.Error(1)
}

func (m *MockRevocationUseCase) ExpireConsents(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenUseCase is a mock implementation of usecase.TokenUseCase.
type MockTokenUseCase struct {
	mock.Mock
}

func (m *MockTokenUseCase) ValidateToken(
	ctx context.Context,
	plainToken string,
) (*usecase.ValidateTokenResult, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ValidateTokenResult), args.Error(1)
}

func (m *MockTokenUseCase) ListTokens(ctx context.Context, contentID string) ([]*domain.Token, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Token), args.Error(1)
}

// MockGatewayUseCase is a mock implementation of usecase.GatewayUseCase.
type MockGatewayUseCase struct {
	mock.Mock
}

func (m *MockGatewayUseCase) HandleContentRequest(
	ctx context.Context,
	input usecase.ContentRequestInput,
) (*usecase.ContentView, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ContentView), args.Error(1)
}
