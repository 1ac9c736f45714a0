package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/storyweave/syndication/internal/events/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.LifecycleEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LifecycleEvent), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEventProcessor is a mock implementation of EventProcessor
type MockEventProcessor struct {
	mock.Mock
}

func (m *MockEventProcessor) Process(ctx context.Context, event *domain.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testConfig() Config {
	return Config{
		Interval:   5 * time.Second,
		BatchSize:  10,
		MaxRetries: 3,
	}
}

func pendingEvent(eventType domain.EventType, retries int) *domain.LifecycleEvent {
	return &domain.LifecycleEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   `{"consent_id": "018f0000-0000-7000-8000-000000000001", "content_id": "S1", "status": "revoked", "tokens_revoked": 2}`,
		Status:    domain.EventStatusPending,
		Retries:   retries,
	}
}

func TestEventUseCase_Start_ContextCancellation(t *testing.T) {
	uc := NewEventUseCase(testConfig(), &MockTxManager{}, &MockEventRepository{}, &MockEventProcessor{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := uc.Start(ctx)
	assert.Equal(t, context.Canceled, err)
}

func TestEventUseCase_ProcessEvents_Success(t *testing.T) {
	txManager := &MockTxManager{}
	eventRepo := &MockEventRepository{}
	processor := &MockEventProcessor{}
	uc := NewEventUseCase(testConfig(), txManager, eventRepo, processor, nil)

	ctx := context.Background()
	events := []*domain.LifecycleEvent{
		pendingEvent(domain.EventTypeConsentApproved, 0),
		pendingEvent(domain.EventTypeConsentRevoked, 0),
	}

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	eventRepo.On("GetPendingEvents", ctx, 10).Return(events, nil)
	processor.On("Process", ctx, events[0]).Return(nil)
	processor.On("Process", ctx, events[1]).Return(nil)
	eventRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.LifecycleEvent) bool {
		return e.Status == domain.EventStatusProcessed && e.ProcessedAt != nil
	})).Return(nil).Times(2)

	err := uc.ProcessEvents(ctx)

	assert.NoError(t, err)
	txManager.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	processor.AssertExpectations(t)
}

func TestEventUseCase_ProcessEvents_NoEvents(t *testing.T) {
	txManager := &MockTxManager{}
	eventRepo := &MockEventRepository{}
	processor := &MockEventProcessor{}
	uc := NewEventUseCase(testConfig(), txManager, eventRepo, processor, nil)

	ctx := context.Background()

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	eventRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.LifecycleEvent{}, nil)

	err := uc.ProcessEvents(ctx)

	assert.NoError(t, err)
	txManager.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestEventUseCase_ProcessEvents_ProcessorError(t *testing.T) {
	txManager := &MockTxManager{}
	eventRepo := &MockEventRepository{}
	processor := &MockEventProcessor{}
	uc := NewEventUseCase(testConfig(), txManager, eventRepo, processor, nil)

	ctx := context.Background()
	event := pendingEvent(domain.EventTypeConsentCreated, 0)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	eventRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.LifecycleEvent{event}, nil)
	processor.On("Process", ctx, event).Return(errors.New("delivery failed"))
	eventRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.LifecycleEvent) bool {
		return e.ID == event.ID && e.Retries == 1 && e.LastError != nil &&
			e.Status == domain.EventStatusPending
	})).Return(nil)

	err := uc.ProcessEvents(ctx)

	assert.NoError(t, err)
	txManager.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	processor.AssertExpectations(t)
}

func TestEventUseCase_ProcessEvents_MaxRetriesReached(t *testing.T) {
	txManager := &MockTxManager{}
	eventRepo := &MockEventRepository{}
	processor := &MockEventProcessor{}
	uc := NewEventUseCase(testConfig(), txManager, eventRepo, processor, nil)

	ctx := context.Background()
	event := pendingEvent(domain.EventTypeConsentRevoked, 2)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	eventRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.LifecycleEvent{event}, nil)
	processor.On("Process", ctx, event).Return(errors.New("delivery failed"))
	eventRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.LifecycleEvent) bool {
		return e.Retries == 3 && e.Status == domain.EventStatusFailed && e.LastError != nil
	})).Return(nil)

	err := uc.ProcessEvents(ctx)

	assert.NoError(t, err)
	eventRepo.AssertExpectations(t)
}

func TestLoggingEventProcessor_Process(t *testing.T) {
	processor := NewLoggingEventProcessor(nil)
	ctx := context.Background()

	t.Run("KnownEventType", func(t *testing.T) {
		err := processor.Process(ctx, pendingEvent(domain.EventTypeConsentRevoked, 0))
		assert.NoError(t, err)
	})

	t.Run("UnknownEventType", func(t *testing.T) {
		event := pendingEvent("consent.archived", 0)
		err := processor.Process(ctx, event)
		assert.NoError(t, err)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		event := pendingEvent(domain.EventTypeConsentCreated, 0)
		event.Payload = `not json`
		err := processor.Process(ctx, event)
		assert.Error(t, err)
	})
}

func TestNewLifecycleEvent(t *testing.T) {
	now := time.Now().UTC()
	payload := domain.ConsentEventPayload{
		ConsentID:         uuid.Must(uuid.NewV7()),
		ContentType:       "story",
		ContentID:         "S1",
		DestinationSiteID: uuid.Must(uuid.NewV7()),
		Status:            "active",
	}

	event, err := domain.NewLifecycleEvent(domain.EventTypeConsentApproved, payload, now)
	assert.NoError(t, err)
	assert.Equal(t, domain.EventStatusPending, event.Status)
	assert.Contains(t, event.Payload, `"content_id":"S1"`)
}
