package handlers

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/auth"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/realtime"
	apperrors "github.com/spec-kit/support-engine/pkg/util"
)

// WSHandler owns the event channel: one websocket per authenticated
// connection, frames dispatched to the registry and presence tracker.
type WSHandler struct {
	registry *realtime.Registry
	presence *realtime.Tracker
	logger   *zap.Logger
}

// NewWSHandler constructs handler.
func NewWSHandler(registry *realtime.Registry, presence *realtime.Tracker, logger *zap.Logger) *WSHandler {
	return &WSHandler{registry: registry, presence: presence, logger: logger}
}

// Upgrade gates the route to websocket upgrade requests.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return apperrors.NewValidationError("websocket upgrade required", nil)
}

// Serve runs one connection until it closes.
func (h *WSHandler) Serve(conn *websocket.Conn) {
	actor, ok := auth.ActorFromLocals(conn.Locals(auth.ActorKey))
	if !ok {
		_ = conn.Close()
		return
	}

	session := realtime.NewSession(uuid.NewString(), *actor)
	client := realtime.NewClient(session, conn, h.logger)

	h.registry.Register(session)
	defer func() {
		h.presence.Clear(session.ID)
		h.registry.Unregister(session)
	}()

	go client.WritePump()
	client.ReadPump(h.handleFrame)
}

func (h *WSHandler) handleFrame(client *realtime.Client, raw []byte) {
	frame, err := events.DecodeClientFrame(raw)
	if err != nil {
		client.SendJSON(events.NewError("BAD_FRAME", err.Error()))
		return
	}

	session := client.Session
	switch f := frame.(type) {
	case events.JoinTicketFrame:
		// the request context ended at upgrade time, so joins resolve
		// against the ticket store on a fresh context
		if err := h.registry.Join(context.Background(), session, f.TicketID); err != nil {
			domainErr := apperrors.ToDomainError(err)
			client.SendJSON(events.NewError(domainErr.Code, domainErr.Message))
		}

	case events.LeaveTicketFrame:
		h.registry.Leave(session, f.TicketID)

	case events.TypingFrame:
		// presence is best-effort and only relayed for joined rooms
		if !h.registry.InRoom(session, f.TicketID) {
			return
		}
		h.presence.SetTyping(f.TicketID, session, f.IsTyping)
	}
}
