package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spec-kit/support-engine/internal/domain"
)

// Wire frame type tags, client to server.
const (
	FrameJoinTicket  = "join_ticket"
	FrameLeaveTicket = "leave_ticket"
	FrameTyping      = "typing"
)

// Wire frame type tags, server to client.
const (
	FrameNewMessage    = "new_message"
	FrameStatusChanged = "status_changed"
	FrameTicketCreated = "ticket_created"
	FrameError         = "error"
)

// Client -> Server frames. Each tag has exactly one schema; anything
// else is rejected at the boundary.

// JoinTicketFrame subscribes the session to a ticket room.
type JoinTicketFrame struct {
	Type     string `json:"type"`
	TicketID string `json:"ticket_id"`
}

// LeaveTicketFrame unsubscribes the session from a ticket room.
type LeaveTicketFrame struct {
	Type     string `json:"type"`
	TicketID string `json:"ticket_id"`
}

// TypingFrame carries a presence pulse. The sender owns the quiet-period
// debounce; the server only relays.
type TypingFrame struct {
	Type     string `json:"type"`
	TicketID string `json:"ticket_id"`
	IsTyping bool   `json:"is_typing"`
}

// ClientFrame is one of the client frame structs above.
type ClientFrame interface{ clientFrame() }

func (JoinTicketFrame) clientFrame()  {}
func (LeaveTicketFrame) clientFrame() {}
func (TypingFrame) clientFrame()      {}

// DecodeClientFrame parses a raw websocket frame into its typed variant.
// Unknown tags and malformed payloads are errors.
func DecodeClientFrame(raw []byte) (ClientFrame, error) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch base.Type {
	case FrameJoinTicket:
		var frame JoinTicketFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return nil, fmt.Errorf("malformed %s frame: %w", base.Type, err)
		}
		return frame, nil
	case FrameLeaveTicket:
		var frame LeaveTicketFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return nil, fmt.Errorf("malformed %s frame: %w", base.Type, err)
		}
		return frame, nil
	case FrameTyping:
		var frame TypingFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return nil, fmt.Errorf("malformed %s frame: %w", base.Type, err)
		}
		return frame, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", base.Type)
	}
}

// Server -> Client frames.

// NewMessageFrame broadcasts a committed message to a ticket room.
type NewMessageFrame struct {
	Type    string         `json:"type"`
	Message MessagePayload `json:"message"`
}

// MessagePayload is the wire shape of a persisted message.
type MessagePayload struct {
	ID            string            `json:"id"`
	TicketID      string            `json:"ticket_id"`
	Sender        domain.SenderRole `json:"sender"`
	SenderID      *string           `json:"sender_id,omitempty"`
	Body          string            `json:"body"`
	AutoGenerated bool              `json:"auto_generated"`
	CreatedAt     time.Time         `json:"created_at"`
}

// StatusChangedFrame broadcasts a ticket status transition.
type StatusChangedFrame struct {
	Type     string              `json:"type"`
	TicketID string              `json:"ticket_id"`
	Status   domain.TicketStatus `json:"status"`
}

// TypingEventFrame relays a presence pulse to the room. Consumers filter
// same-role echoes locally.
type TypingEventFrame struct {
	Type     string           `json:"type"`
	UserID   string           `json:"user_id"`
	TicketID string           `json:"ticket_id"`
	IsTyping bool             `json:"is_typing"`
	Role     domain.ActorRole `json:"role"`
}

// TicketCreatedFrame tells admin sessions a new ticket was filed.
type TicketCreatedFrame struct {
	Type     string              `json:"type"`
	TicketID string              `json:"ticket_id"`
	Subject  string              `json:"subject"`
	Merchant string              `json:"merchant_name"`
	Status   domain.TicketStatus `json:"status"`
}

// ErrorFrame reports a rejected client frame.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage builds a new_message frame from a persisted message.
func NewMessage(msg domain.Message) NewMessageFrame {
	return NewMessageFrame{
		Type: FrameNewMessage,
		Message: MessagePayload{
			ID:            msg.ID,
			TicketID:      msg.TicketID,
			Sender:        msg.Sender,
			SenderID:      msg.SenderID,
			Body:          msg.Body,
			AutoGenerated: msg.AutoGenerated,
			CreatedAt:     msg.CreatedAt,
		},
	}
}

// NewStatusChanged builds a status_changed frame.
func NewStatusChanged(ticketID string, status domain.TicketStatus) StatusChangedFrame {
	return StatusChangedFrame{Type: FrameStatusChanged, TicketID: ticketID, Status: status}
}

// NewTypingEvent builds a typing frame for room delivery.
func NewTypingEvent(ticketID, actorID string, role domain.ActorRole, isTyping bool) TypingEventFrame {
	return TypingEventFrame{
		Type:     FrameTyping,
		UserID:   actorID,
		TicketID: ticketID,
		IsTyping: isTyping,
		Role:     role,
	}
}

// NewTicketCreated builds a ticket_created frame for admin sessions.
func NewTicketCreated(ticket domain.Ticket) TicketCreatedFrame {
	return TicketCreatedFrame{
		Type:     FrameTicketCreated,
		TicketID: ticket.ID,
		Subject:  ticket.Subject,
		Merchant: ticket.MerchantName,
		Status:   ticket.Status,
	}
}

// NewError builds an error frame.
func NewError(code, message string) ErrorFrame {
	return ErrorFrame{Type: FrameError, Code: code, Message: message}
}
