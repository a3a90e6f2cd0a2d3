package events

import (
	"time"

	"github.com/spec-kit/support-engine/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventStatusChanged EventType = "ticket_status_changed"
	EventMessageAdded  EventType = "ticket_message_added"
)

// Event represents a domain event emitted by services. Payload is one
// of the payload structs below, fixed per Type.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ActorID   string              `json:"actor_id"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	Message domain.Message `json:"message"`
	// MerchantName is carried so subscribers (the automated responder)
	// can render templates without another store read.
	MerchantName string `json:"merchant_name"`
}
