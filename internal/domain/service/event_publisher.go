package service

import (
	"context"
	"time"
)

// AccountEventType names the kind of account event.
type AccountEventType string

// AccountRegistered is published after a successful sign-up.
const AccountRegistered AccountEventType = "account.registered"

// AccountEvent is published to downstream consumers. It never carries credentials.
type AccountEvent struct {
	ID         string           `json:"id"`                   // Unique per event, used as the message ID
	RequestID  string           `json:"request_id,omitempty"` // For distributed tracing
	Type       AccountEventType `json:"type"`
	AccountID  string           `json:"account_id"`
	Email      string           `json:"email"`
	Company    string           `json:"company"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing account events to a message queue
type EventPublisher interface {
	// PublishAccountEvent publishes an event. Callers treat failures as non-fatal.
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
