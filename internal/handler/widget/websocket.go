package widget

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	conversationService "github.com/megamarket/assistant-widget/internal/service/conversation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 45 * time.Second
	maxMessageSize = 4096
)

// client is one connected widget instance's websocket.
type client struct {
	conn *websocket.Conn
	send chan outgoingMessage
}

// handleWebSocket upgrades the connection, replays the current state, and
// shuttles commands in and surface events out.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[widget] websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan outgoingMessage, 32)}
	h.hub.register(c)

	// New clients get a full snapshot before the event stream.
	c.send <- outgoingMessage{
		Type:      eventState,
		Data:      h.svc.Snapshot(),
		Timestamp: time.Now().UnixMilli(),
	}

	go c.writePump(h.hub)
	c.readPump(h)
}

func (c *client) readPump(h *Handler) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd conversationService.Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[widget] websocket read failed: %v", err)
			}
			h.hub.unregister(c)
			return
		}

		// Submissions block for the assistant round-trip, so commands run
		// off the read loop. The conversation outlives any one socket, so
		// command execution is not tied to the connection context. The
		// awaitingReply guard keeps at most one transport call in flight
		// no matter how many arrive.
		go func(cmd conversationService.Command) {
			if err := h.svc.Apply(context.Background(), cmd); err != nil && !isRejection(err) {
				log.Printf("[widget] command %q failed: %v", cmd.Kind, err)
			}
		}(cmd)
	}
}

func (c *client) writePump(hub *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				hub.unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				hub.unregister(c)
				return
			}
		}
	}
}

// isRejection reports whether the error is a silent validation drop rather
// than a fault worth logging.
func isRejection(err error) bool {
	return errors.Is(err, conversationService.ErrEmptyMessage) ||
		errors.Is(err, conversationService.ErrAwaitingReply)
}
