package realtime

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client couples a registered session with its websocket connection.
type Client struct {
	Session *Session
	Conn    *websocket.Conn
	logger  *zap.Logger
}

// NewClient wraps a connection and its session.
func NewClient(session *Session, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{Session: session, Conn: conn, logger: logger}
}

// ReadPump reads frames off the connection and hands raw payloads to
// the handler. It exits on any read error; the caller owns unregister.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer c.Conn.Close()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		handler(c, message)
	}
}

// WritePump drains the session's send channel onto the connection and
// keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Session.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON queues a frame on the session without blocking.
func (c *Client) SendJSON(frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.logger.Warn("marshal frame", zap.Error(err))
		return
	}
	select {
	case c.Session.Send <- data:
	default:
	}
}
