package domain

import "time"

// SenderRole indicates who authored a message.
type SenderRole string

const (
	SenderRoleMerchant SenderRole = "MERCHANT"
	SenderRoleAdmin    SenderRole = "ADMIN"
	SenderRoleSystem   SenderRole = "SYSTEM"
)

// Message captures one entry in a ticket thread. Messages are immutable
// once created; ordering is created_at then insertion order.
type Message struct {
	ID       string
	TicketID string
	Sender   SenderRole
	SenderID *string
	Body     string
	// AutoGenerated marks messages produced by the automated responder.
	// It is an explicit field so such messages never re-trigger the
	// responder, regardless of sender role.
	AutoGenerated bool
	CreatedAt     time.Time
}
