// Package domain defines the consent lifecycle event entities used by the
// transactional outbox.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/storyweave/syndication/internal/errors"
)

// EventType identifies a consent lifecycle transition.
type EventType string

const (
	EventTypeConsentCreated  EventType = "consent.created"
	EventTypeConsentApproved EventType = "consent.approved"
	EventTypeConsentRevoked  EventType = "consent.revoked"
	EventTypeConsentExpired  EventType = "consent.expired"
)

// EventStatus represents the processing status of a lifecycle event.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusProcessed EventStatus = "processed"
	EventStatusFailed    EventStatus = "failed"
)

// LifecycleEvent is written in the same transaction as the consent state
// change it describes, then delivered asynchronously by the event worker.
type LifecycleEvent struct {
	ID          uuid.UUID
	EventType   EventType
	Payload     string
	Status      EventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConsentEventPayload is the JSON body carried by consent lifecycle events.
type ConsentEventPayload struct {
	ConsentID         uuid.UUID `json:"consent_id"`
	ContentType       string    `json:"content_type"`
	ContentID         string    `json:"content_id"`
	DestinationSiteID uuid.UUID `json:"destination_site_id"`
	Status            string    `json:"status"`
	TokensRevoked     int64     `json:"tokens_revoked,omitempty"`
	Reason            string    `json:"reason,omitempty"`
}

// NewLifecycleEvent builds a pending event with a serialized payload.
func NewLifecycleEvent(eventType EventType, payload ConsentEventPayload, now time.Time) (*LifecycleEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode event payload")
	}

	return &LifecycleEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(body),
		Status:    EventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
