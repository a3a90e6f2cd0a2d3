package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/repository"
)

// memoryTicketRepo is an in-memory stand-in for the durable store.
type memoryTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newMemoryTicketRepo() *memoryTicketRepo {
	return &memoryTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *memoryTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *memoryTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	return nil
}

func (r *memoryTicketRepo) Touch(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	return nil
}

func (r *memoryTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *memoryTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.MerchantID != nil && ticket.MerchantID != *filter.MerchantID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// memoryMessageRepo stores messages in insertion order.
type memoryMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
}

func newMemoryMessageRepo() *memoryMessageRepo {
	return &memoryMessageRepo{}
}

func (r *memoryMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *memoryMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// memoryTemplateRepo serves templates from a map.
type memoryTemplateRepo struct {
	templates map[string]domain.ReplyTemplate
}

func newMemoryTemplateRepo() *memoryTemplateRepo {
	return &memoryTemplateRepo{templates: make(map[string]domain.ReplyTemplate)}
}

func (r *memoryTemplateRepo) List(_ context.Context) ([]domain.ReplyTemplate, error) {
	out := make([]domain.ReplyTemplate, 0, len(r.templates))
	for _, tpl := range r.templates {
		out = append(out, tpl)
	}
	return out, nil
}

func (r *memoryTemplateRepo) Get(_ context.Context, title string) (*domain.ReplyTemplate, error) {
	tpl, ok := r.templates[title]
	if !ok {
		return nil, nil
	}
	return &tpl, nil
}

func (r *memoryTemplateRepo) Upsert(_ context.Context, tpl domain.ReplyTemplate) error {
	r.templates[tpl.Title] = tpl
	return nil
}

func (r *memoryTemplateRepo) Delete(_ context.Context, title string) error {
	delete(r.templates, title)
	return nil
}

// memorySettingsRepo holds the auto-reply flag.
type memorySettingsRepo struct {
	enabled *bool
}

func (r *memorySettingsRepo) AutoReplyEnabled(_ context.Context, fallback bool) (bool, error) {
	if r.enabled == nil {
		return fallback, nil
	}
	return *r.enabled, nil
}

func (r *memorySettingsRepo) SetAutoReplyEnabled(_ context.Context, enabled bool) error {
	r.enabled = &enabled
	return nil
}
