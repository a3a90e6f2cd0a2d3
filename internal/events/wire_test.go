package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-engine/internal/domain"
)

func TestDecodeClientFrameJoin(t *testing.T) {
	frame, err := DecodeClientFrame([]byte(`{"type":"join_ticket","ticket_id":"t-1"}`))
	require.NoError(t, err)
	join, ok := frame.(JoinTicketFrame)
	require.True(t, ok)
	assert.Equal(t, "t-1", join.TicketID)
}

func TestDecodeClientFrameTyping(t *testing.T) {
	frame, err := DecodeClientFrame([]byte(`{"type":"typing","ticket_id":"t-1","is_typing":true}`))
	require.NoError(t, err)
	typing, ok := frame.(TypingFrame)
	require.True(t, ok)
	assert.True(t, typing.IsTyping)
	assert.Equal(t, "t-1", typing.TicketID)
}

func TestDecodeClientFrameRejectsUnknownType(t *testing.T) {
	_, err := DecodeClientFrame([]byte(`{"type":"shutdown_everything"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown frame type")
}

func TestDecodeClientFrameRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeClientFrame([]byte(`{"type":`))
	require.Error(t, err)
}

func TestNewMessageFrameShape(t *testing.T) {
	senderID := "m-1"
	frame := NewMessage(domain.Message{
		ID:       "msg-1",
		TicketID: "t-1",
		Sender:   domain.SenderRoleMerchant,
		SenderID: &senderID,
		Body:     "hello",
	})
	assert.Equal(t, FrameNewMessage, frame.Type)
	assert.Equal(t, "msg-1", frame.Message.ID)
	assert.Equal(t, domain.SenderRoleMerchant, frame.Message.Sender)
}

func TestNewTypingEventShape(t *testing.T) {
	frame := NewTypingEvent("t-1", "a-1", domain.ActorRoleAdmin, false)
	assert.Equal(t, FrameTyping, frame.Type)
	assert.Equal(t, "a-1", frame.UserID)
	assert.False(t, frame.IsTyping)
	assert.Equal(t, domain.ActorRoleAdmin, frame.Role)
}
