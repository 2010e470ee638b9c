package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_HANDOFF").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChatHandoffEvent marks a chat as waiting for a human agent.
func NewChatHandoffEvent(chatId uuid.UUID, phone string) BaseEvent {
	return BaseEvent{
		Type: "CHAT_HANDOFF",
		Data: map[string]interface{}{
			"chat_id": chatId.String(),
			"phone":   phone,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatResolvedEvent marks a chat closed by the bot itself.
func NewChatResolvedEvent(chatId uuid.UUID, phone string) BaseEvent {
	return BaseEvent{
		Type: "CHAT_RESOLVED",
		Data: map[string]interface{}{
			"chat_id": chatId.String(),
			"phone":   phone,
		},
		OccurredAt: time.Now(),
	}
}

// NewDebtorContactedEvent records a successful document-lookup contact.
func NewDebtorContactedEvent(debtorId, chatId uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: "DEBTOR_CONTACTED",
		Data: map[string]interface{}{
			"debtor_id": debtorId.String(),
			"chat_id":   chatId.String(),
		},
		OccurredAt: time.Now(),
	}
}
