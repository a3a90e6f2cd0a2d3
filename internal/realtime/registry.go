package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/observability"
	apperrors "github.com/spec-kit/support-engine/pkg/util"
)

// sendBuffer sizes each session's outbound queue. A session that cannot
// drain its buffer misses events; durable state is recoverable via pull.
const sendBuffer = 256

// Session is one live authenticated connection.
type Session struct {
	ID    string
	Actor domain.Actor
	Send  chan []byte
}

// NewSession builds a session for the given connection id and actor.
func NewSession(id string, actor domain.Actor) *Session {
	return &Session{
		ID:    id,
		Actor: actor,
		Send:  make(chan []byte, sendBuffer),
	}
}

// TicketSource resolves tickets for join authorization.
type TicketSource interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
}

// Registry maps live sessions to actors and ticket rooms, and fans
// events out to room members. Publish order within a room matches call
// order: the registry mutex serializes every fan-out.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	rooms    map[string]map[string]*Session

	tickets TicketSource
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewRegistry creates an empty registry.
func NewRegistry(tickets TicketSource, logger *zap.Logger, metrics *observability.Metrics) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		rooms:    make(map[string]map[string]*Session),
		tickets:  tickets,
		logger:   logger,
		metrics:  metrics,
	}
}

// Register adds a connected session.
func (r *Registry) Register(session *Session) {
	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	r.logger.Debug("session registered",
		zap.String("session_id", session.ID),
		zap.String("actor_id", session.Actor.ID),
		zap.String("role", string(session.Actor.Role)))
}

// Unregister removes a session from the registry and every room it
// joined, then closes its send channel.
func (r *Registry) Unregister(session *Session) {
	r.mu.Lock()
	if _, ok := r.sessions[session.ID]; ok {
		for ticketID, members := range r.rooms {
			delete(members, session.ID)
			if len(members) == 0 {
				delete(r.rooms, ticketID)
			}
		}
		delete(r.sessions, session.ID)
		close(session.Send)
	}
	r.mu.Unlock()
	r.logger.Debug("session unregistered", zap.String("session_id", session.ID))
}

// Join subscribes the session to the ticket's room. Merchants may only
// join their own tenant's tickets; admins may join any.
func (r *Registry) Join(ctx context.Context, session *Session, ticketID string) error {
	ticket, err := r.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.NewTransientIOError(err)
	}
	if !session.Actor.CanAccessTicket(ticket) {
		return apperrors.NewUnauthorized("ticket belongs to another tenant")
	}

	r.mu.Lock()
	if _, ok := r.rooms[ticketID]; !ok {
		r.rooms[ticketID] = make(map[string]*Session)
	}
	r.rooms[ticketID][session.ID] = session
	r.mu.Unlock()

	r.logger.Info("session joined room",
		zap.String("session_id", session.ID),
		zap.String("ticket_id", ticketID))
	return nil
}

// Leave unsubscribes the session from the ticket's room.
func (r *Registry) Leave(session *Session, ticketID string) {
	r.mu.Lock()
	if members, ok := r.rooms[ticketID]; ok {
		delete(members, session.ID)
		if len(members) == 0 {
			delete(r.rooms, ticketID)
		}
	}
	r.mu.Unlock()
}

// Publish delivers the frame to every session in the ticket's room,
// including the sender. Delivery is best-effort: a session with a full
// buffer is skipped, never waited on.
func (r *Registry) Publish(ticketID string, eventType string, frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		r.logger.Warn("marshal broadcast frame", zap.Error(err))
		return
	}

	r.mu.Lock()
	for _, session := range r.rooms[ticketID] {
		select {
		case session.Send <- data:
		default:
		}
	}
	r.mu.Unlock()
	r.metrics.RecordBroadcast(eventType)
}

// PublishToAdmins delivers the frame to every connected admin session,
// joined rooms notwithstanding. Used for ticket_created.
func (r *Registry) PublishToAdmins(eventType string, frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		r.logger.Warn("marshal broadcast frame", zap.Error(err))
		return
	}

	r.mu.Lock()
	for _, session := range r.sessions {
		if session.Actor.Role != domain.ActorRoleAdmin {
			continue
		}
		select {
		case session.Send <- data:
		default:
		}
	}
	r.mu.Unlock()
	r.metrics.RecordBroadcast(eventType)
}

// InRoom reports whether the session has joined the ticket's room.
func (r *Registry) InRoom(session *Session, ticketID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[ticketID][session.ID]
	return ok
}

// RoomSize reports the number of sessions joined to the ticket's room.
func (r *Registry) RoomSize(ticketID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[ticketID])
}
