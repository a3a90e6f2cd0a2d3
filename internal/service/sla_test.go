package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-engine/internal/domain"
)

func TestIsOverdueNonOpenNever(t *testing.T) {
	created := time.Now().Add(-1000 * time.Hour)
	for _, status := range []domain.TicketStatus{domain.TicketStatusResolved, domain.TicketStatusClosed} {
		ticket := &domain.Ticket{Status: status, CreatedAt: created}
		assert.False(t, IsOverdue(ticket, 24, time.Now()), "status %s", status)
		assert.Nil(t, RemainingHours(ticket, 24, time.Now()), "status %s", status)
	}
}

func TestIsOverdueOpenTicket(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: created}

	assert.False(t, IsOverdue(ticket, 24, created.Add(23*time.Hour)))
	assert.False(t, IsOverdue(ticket, 24, created.Add(24*time.Hour)))
	assert.True(t, IsOverdue(ticket, 24, created.Add(24*time.Hour+time.Minute)))
}

func TestRemainingHoursScenario(t *testing.T) {
	// ticket opened at T, slaHours=24, read at T+25h
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: created}
	now := created.Add(25 * time.Hour)

	assert.True(t, IsOverdue(ticket, 24, now))
	remaining := RemainingHours(ticket, 24, now)
	require.NotNil(t, remaining)
	assert.Equal(t, -1, *remaining)
}

func TestRemainingHoursClampedFloor(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: created}
	now := created.Add(100000 * time.Hour)

	remaining := RemainingHours(ticket, 24, now)
	require.NotNil(t, remaining)
	assert.Equal(t, -999, *remaining)
}

func TestRemainingHoursRounds(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: created}

	remaining := RemainingHours(ticket, 24, created.Add(90*time.Minute))
	require.NotNil(t, remaining)
	assert.Equal(t, 23, *remaining)
}
