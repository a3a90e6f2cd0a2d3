package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
)

func TestBridgeForwardsMessageAddedToRoom(t *testing.T) {
	registry := newTestRegistry()
	dispatcher := events.NewInMemoryDispatcher()
	NewBridge(registry).RegisterHandlers(dispatcher)

	sess := adminSession("s-1")
	registry.Register(sess)
	require.NoError(t, registry.Join(context.Background(), sess, "t-1"))

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventMessageAdded,
		TicketID: "t-1",
		Payload: events.MessageAddedPayload{
			Message: domain.Message{ID: "m-1", TicketID: "t-1", Sender: domain.SenderRoleMerchant, Body: "hi"},
		},
	})
	require.NoError(t, err)

	frames := drain(sess)
	require.Len(t, frames, 1)
	var frame events.NewMessageFrame
	require.NoError(t, json.Unmarshal(frames[0], &frame))
	assert.Equal(t, events.FrameNewMessage, frame.Type)
	assert.Equal(t, "m-1", frame.Message.ID)
}

func TestBridgeForwardsTicketCreatedToAdmins(t *testing.T) {
	registry := newTestRegistry()
	dispatcher := events.NewInMemoryDispatcher()
	NewBridge(registry).RegisterHandlers(dispatcher)

	admin := adminSession("s-1")
	merchant := merchantSession("s-2", "tenant-1")
	registry.Register(admin)
	registry.Register(merchant)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "t-9",
		Payload: events.TicketCreatedPayload{
			Ticket: domain.Ticket{ID: "t-9", Subject: "New ticket", MerchantName: "Espresso Corner", Status: domain.TicketStatusOpen},
		},
	})
	require.NoError(t, err)

	require.Len(t, drain(admin), 1)
	assert.Empty(t, drain(merchant))
}

func TestBridgeForwardsStatusChanged(t *testing.T) {
	registry := newTestRegistry()
	dispatcher := events.NewInMemoryDispatcher()
	NewBridge(registry).RegisterHandlers(dispatcher)

	sess := merchantSession("s-1", "tenant-1")
	registry.Register(sess)
	require.NoError(t, registry.Join(context.Background(), sess, "t-1"))

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventStatusChanged,
		TicketID: "t-1",
		Payload: events.StatusChangedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusResolved,
		},
	})
	require.NoError(t, err)

	frames := drain(sess)
	require.Len(t, frames, 1)
	var frame events.StatusChangedFrame
	require.NoError(t, json.Unmarshal(frames[0], &frame))
	assert.Equal(t, domain.TicketStatusResolved, frame.Status)
}
