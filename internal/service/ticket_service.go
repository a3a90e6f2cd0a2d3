package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/repository"
	apperrors "github.com/spec-kit/support-engine/pkg/util"
)

// TicketService coordinates ticket workflows: thread submission, status
// transitions, reads and the transcript projection.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	dispatcher events.Dispatcher

	mu          sync.Mutex
	ticketLocks map[string]*sync.Mutex
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		messages:    deps.MessageRepo,
		dispatcher:  deps.Dispatcher,
		ticketLocks: make(map[string]*sync.Mutex),
	}
}

// CreateTicket files a new ticket for a merchant and, when a body is
// given, appends the opening message through the submission path.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, subject, body string) (*domain.Ticket, error) {
	if actor.Role != domain.ActorRoleMerchant {
		return nil, apperrors.NewForbidden("merchant required")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}

	ticket := &domain.Ticket{
		Subject:      subject,
		MerchantID:   actor.MerchantID,
		MerchantName: actor.DisplayName,
		Status:       domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewTransientIOError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{Ticket: *ticket},
	})

	if strings.TrimSpace(body) != "" {
		if _, err := s.SubmitMessage(ctx, actor, ticket.ID, body); err != nil {
			return nil, err
		}
	}
	return ticket, nil
}

// SubmitMessage appends a reply to the ticket thread. The persisted
// message is broadcast to the room before the call returns; for
// non-admin senders the automated responder is consulted afterwards
// (both via the synchronous dispatcher).
func (s *TicketService) SubmitMessage(ctx context.Context, actor domain.Actor, ticketID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("message body required", nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessTicket(ticket) {
		return nil, apperrors.NewForbidden("ticket belongs to another tenant")
	}

	senderID := actor.ID
	msg := &domain.Message{
		TicketID: ticket.ID,
		Sender:   actor.SenderRole(),
		SenderID: &senderID,
		Body:     body,
	}

	// Commit and broadcast run under a per-ticket lock: room delivery
	// order must match store commit order even when two submitters race
	// on one ticket.
	unlock := s.lockTicket(ticket.ID)
	defer unlock()

	if err := s.persistMessage(ctx, ticket, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// SubmitSystemMessage appends an auto-generated SYSTEM message. Such
// messages carry the explicit AutoGenerated flag and never re-trigger
// the automated responder. It runs on the synchronous dispatcher inside
// the triggering submission's per-ticket critical section, so it takes
// no lock of its own.
func (s *TicketService) SubmitSystemMessage(ctx context.Context, ticketID, body string) (*domain.Message, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	msg := &domain.Message{
		TicketID:      ticket.ID,
		Sender:        domain.SenderRoleSystem,
		Body:          body,
		AutoGenerated: true,
	}
	if err := s.persistMessage(ctx, ticket, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// SetStatus moves a ticket to RESOLVED or CLOSED. Admin only. Setting
// the current status again is a no-op success with no broadcast.
func (s *TicketService) SetStatus(ctx context.Context, actor domain.Actor, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if actor.Role != domain.ActorRoleAdmin {
		return nil, apperrors.NewForbidden("admin required")
	}
	if !newStatus.IsSettable() {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("status %q is not a settable target", newStatus), nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == newStatus {
		return ticket, nil
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewTransientIOError(err)
	}
	ticket.Status = newStatus
	ticket.UpdatedAt = time.Now()

	s.publishEvent(ctx, events.Event{
		Type:     events.EventStatusChanged,
		TicketID: ticket.ID,
		Payload: events.StatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			ActorID:   actor.ID,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket and its full message thread, enforcing
// tenant scope.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, []domain.Message, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccessTicket(ticket) {
		return nil, nil, apperrors.NewForbidden("ticket belongs to another tenant")
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.NewTransientIOError(err)
	}
	return ticket, msgs, nil
}

// ListTickets returns tickets visible to the actor: the merchant's own
// tenant, or everything for admins.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, statuses []domain.TicketStatus, limit, offset int) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	}
	if actor.Role == domain.ActorRoleMerchant {
		merchantID := actor.MerchantID
		filter.MerchantID = &merchantID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.NewTransientIOError(err)
	}
	return tickets, nil
}

// ExportTranscript renders the ticket thread as flat text.
func (s *TicketService) ExportTranscript(ctx context.Context, actor domain.Actor, ticketID string) (string, error) {
	ticket, msgs, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ticket %s: %s\n", ticket.ID, ticket.Subject)
	fmt.Fprintf(&b, "Merchant: %s\n", ticket.MerchantName)
	fmt.Fprintf(&b, "Status: %s\n", ticket.Status)
	fmt.Fprintf(&b, "Opened: %s\n\n", ticket.CreatedAt.Format(time.RFC3339))
	for _, msg := range msgs {
		fmt.Fprintf(&b, "[%s] %s\n%s\n\n",
			msg.CreatedAt.Format(time.RFC3339), msg.Sender, msg.Body)
	}
	return b.String(), nil
}

// lockTicket acquires the ticket's submission lock and returns its
// release func.
func (s *TicketService) lockTicket(ticketID string) func() {
	s.mu.Lock()
	lock, ok := s.ticketLocks[ticketID]
	if !ok {
		lock = &sync.Mutex{}
		s.ticketLocks[ticketID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewTransientIOError(err)
	}
	return ticket, nil
}

func (s *TicketService) persistMessage(ctx context.Context, ticket *domain.Ticket, msg *domain.Message) error {
	if err := s.messages.Create(ctx, msg); err != nil {
		return apperrors.NewTransientIOError(err)
	}
	// bump last-update; failure here does not lose the message
	if err := s.tickets.Touch(ctx, ticket.ID); err == nil {
		ticket.UpdatedAt = time.Now()
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventMessageAdded,
		TicketID: ticket.ID,
		Payload: events.MessageAddedPayload{
			Message:      *msg,
			MerchantName: ticket.MerchantName,
		},
	})
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
