package realtime

import (
	"context"

	"github.com/spec-kit/support-engine/internal/events"
)

// Bridge forwards domain events onto live connections: message and
// status events to the ticket's room, ticket creation to every admin
// session. The dispatcher is synchronous, so room delivery order
// follows commit order.
type Bridge struct {
	registry *Registry
}

// NewBridge builds the bridge.
func NewBridge(registry *Registry) *Bridge {
	return &Bridge{registry: registry}
}

// RegisterHandlers subscribes the bridge to the dispatcher.
func (b *Bridge) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventMessageAdded, b.handleMessageAdded)
	dispatcher.Subscribe(events.EventStatusChanged, b.handleStatusChanged)
	dispatcher.Subscribe(events.EventTicketCreated, b.handleTicketCreated)
}

func (b *Bridge) handleMessageAdded(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageAddedPayload)
	if !ok {
		return nil
	}
	b.registry.Publish(event.TicketID, events.FrameNewMessage, events.NewMessage(payload.Message))
	return nil
}

func (b *Bridge) handleStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	b.registry.Publish(event.TicketID, events.FrameStatusChanged,
		events.NewStatusChanged(event.TicketID, payload.NewStatus))
	return nil
}

func (b *Bridge) handleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	b.registry.PublishToAdmins(events.FrameTicketCreated, events.NewTicketCreated(payload.Ticket))
	return nil
}
