package realtime

import (
	"sync"
	"time"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
)

// Signal is one actor's transient typing state on one ticket.
type Signal struct {
	ActorID   string
	Role      domain.ActorRole
	IsTyping  bool
	UpdatedAt time.Time
}

// Tracker holds per-ticket typing signals keyed by session, so an actor
// with two live connections keeps one connection's signal when the
// other drops. Each new pulse overwrites the previous one; nothing is
// persisted. Senders own the quiet-period isTyping=false, so the
// tracker carries no expiry timers.
type Tracker struct {
	mu       sync.Mutex
	signals  map[string]map[string]Signal // ticketID -> sessionID -> signal
	registry *Registry
	now      func() time.Time
}

// NewTracker creates a tracker broadcasting through the registry.
func NewTracker(registry *Registry) *Tracker {
	return &Tracker{
		signals:  make(map[string]map[string]Signal),
		registry: registry,
		now:      time.Now,
	}
}

// SetTyping records the session's signal and relays a typing frame to
// the room. Consumers filter same-role echoes on their side.
func (t *Tracker) SetTyping(ticketID string, session *Session, isTyping bool) {
	actor := session.Actor

	t.mu.Lock()
	if _, ok := t.signals[ticketID]; !ok {
		t.signals[ticketID] = make(map[string]Signal)
	}
	t.signals[ticketID][session.ID] = Signal{
		ActorID:   actor.ID,
		Role:      actor.Role,
		IsTyping:  isTyping,
		UpdatedAt: t.now(),
	}
	t.mu.Unlock()

	t.registry.Publish(ticketID, events.FrameTyping,
		events.NewTypingEvent(ticketID, actor.ID, actor.Role, isTyping))
}

// Clear drops every signal the session left behind, typically on
// disconnect. Other sessions of the same actor are untouched.
func (t *Tracker) Clear(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ticketID, members := range t.signals {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(t.signals, ticketID)
		}
	}
}

// Snapshot returns the current per-session signals for a ticket.
func (t *Tracker) Snapshot(ticketID string) []Signal {
	t.mu.Lock()
	defer t.mu.Unlock()
	members := t.signals[ticketID]
	out := make([]Signal, 0, len(members))
	for _, sig := range members {
		out = append(out, sig)
	}
	return out
}
