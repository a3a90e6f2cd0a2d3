package service

import (
	"math"
	"time"

	"github.com/spec-kit/support-engine/internal/domain"
)

// remainingFloor caps negative drift so the console never renders an
// unbounded negative number.
const remainingFloor = -999

// IsOverdue reports whether an open ticket has exceeded the SLA
// threshold. Non-open tickets are never overdue. Overdue-ness is a
// view recomputed per read, not a stored flag.
func IsOverdue(ticket *domain.Ticket, slaHours int, now time.Time) bool {
	if ticket == nil || ticket.Status != domain.TicketStatusOpen {
		return false
	}
	return now.Sub(ticket.CreatedAt) > time.Duration(slaHours)*time.Hour
}

// RemainingHours returns the rounded hours until (or past, negative)
// the SLA deadline. Nil for non-open tickets.
func RemainingHours(ticket *domain.Ticket, slaHours int, now time.Time) *int {
	if ticket == nil || ticket.Status != domain.TicketStatusOpen {
		return nil
	}
	elapsed := now.Sub(ticket.CreatedAt).Hours()
	remaining := int(math.Round(float64(slaHours) - elapsed))
	if remaining < remainingFloor {
		remaining = remainingFloor
	}
	return &remaining
}
