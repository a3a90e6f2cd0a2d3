package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusResolved TicketStatus = "RESOLVED"
	TicketStatusClosed   TicketStatus = "CLOSED"
)

// IsSettable reports whether s is a valid target for a status change.
// OPEN is not settable; tickets are never reopened through this engine.
func (s TicketStatus) IsSettable() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// Ticket is the aggregate for merchant support requests.
type Ticket struct {
	ID           string
	Subject      string
	MerchantID   string
	MerchantName string
	Status       TicketStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
