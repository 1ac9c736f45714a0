// Package usecase implements the lifecycle event worker that drains the
// transactional outbox.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/storyweave/syndication/internal/database"
	"github.com/storyweave/syndication/internal/events/domain"
)

// Config holds event worker configuration.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// EventRepository defines lifecycle event repository operations.
type EventRepository interface {
	Create(ctx context.Context, event *domain.LifecycleEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.LifecycleEvent, error)
	Update(ctx context.Context, event *domain.LifecycleEvent) error
}

// EventProcessor defines the interface for delivering a lifecycle event.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.LifecycleEvent) error
}

// UseCase defines the interface for the event worker.
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// EventUseCase drains pending lifecycle events in batches on a fixed interval.
type EventUseCase struct {
	config         Config
	txManager      database.TxManager
	eventRepo      EventRepository
	eventProcessor EventProcessor
	logger         *slog.Logger
}

// NewEventUseCase creates a new EventUseCase.
func NewEventUseCase(
	config Config,
	txManager database.TxManager,
	eventRepo EventRepository,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) *EventUseCase {
	return &EventUseCase{
		config:         config,
		txManager:      txManager,
		eventRepo:      eventRepo,
		eventProcessor: eventProcessor,
		logger:         logger,
	}
}

// Start runs the event processing loop until the context is canceled.
func (uc *EventUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting lifecycle event worker",
			slog.Duration("interval", uc.config.Interval),
			slog.Int("batch_size", uc.config.BatchSize),
		)
	}

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping lifecycle event worker")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to process events", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessEvents retrieves and processes one batch of pending events in a
// transaction. A failing event is retried on later ticks until MaxRetries,
// then parked as failed; other events in the batch still make progress.
func (uc *EventUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.eventRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		if uc.logger != nil {
			uc.logger.Info("processing lifecycle events", slog.Int("count", len(events)))
		}

		for _, event := range events {
			if err := uc.eventProcessor.Process(ctx, event); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to process event",
						slog.String("event_id", event.ID.String()),
						slog.String("event_type", string(event.EventType)),
						slog.Any("error", err),
					)
				}

				event.Retries++
				errorMsg := err.Error()
				event.LastError = &errorMsg

				if event.Retries >= uc.config.MaxRetries {
					event.Status = domain.EventStatusFailed
				}

				if err := uc.eventRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			now := time.Now()
			event.Status = domain.EventStatusProcessed
			event.ProcessedAt = &now

			if err := uc.eventRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// LoggingEventProcessor delivers lifecycle events by emitting structured log
// records. Notification fan-out to destination sites hangs off this interface.
type LoggingEventProcessor struct {
	logger *slog.Logger
}

// NewLoggingEventProcessor creates a new LoggingEventProcessor.
func NewLoggingEventProcessor(logger *slog.Logger) *LoggingEventProcessor {
	return &LoggingEventProcessor{logger: logger}
}

// Process handles a single lifecycle event.
func (p *LoggingEventProcessor) Process(ctx context.Context, event *domain.LifecycleEvent) error {
	var payload domain.ConsentEventPayload
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}

	switch event.EventType {
	case domain.EventTypeConsentCreated, domain.EventTypeConsentApproved,
		domain.EventTypeConsentRevoked, domain.EventTypeConsentExpired:
		if p.logger != nil {
			p.logger.Info("consent lifecycle event",
				slog.String("event_type", string(event.EventType)),
				slog.String("consent_id", payload.ConsentID.String()),
				slog.String("content_id", payload.ContentID),
				slog.String("destination_site_id", payload.DestinationSiteID.String()),
				slog.Int64("tokens_revoked", payload.TokensRevoked),
			)
		}
	default:
		if p.logger != nil {
			p.logger.Warn("unknown event type", slog.String("event_type", string(event.EventType)))
		}
	}

	return nil
}
