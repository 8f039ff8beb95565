package widget

import (
	"sync"
	"time"

	modelconv "github.com/megamarket/assistant-widget/internal/model/conversation"
	"github.com/megamarket/assistant-widget/internal/render"
)

// Event names pushed to connected widgets.
const (
	eventTurn         = "turn"
	eventInput        = "input"
	eventConnectivity = "connectivity"
	eventProductPanel = "product_panel"
	eventOrderPanel   = "order_panel"
	eventClearPanels  = "clear_panels"
	eventState        = "state"
)

// outgoingMessage is the envelope for every surface event sent to a client.
type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Hub fans surface events out to every connected widget client. It is the
// production render.Surface: the conversation controller pushes into it and
// the websocket layer drains it per client.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// subscribe attaches a plain event channel, used by the SSE fallback when a
// websocket is unavailable. The cancel function detaches it.
func (h *Hub) subscribe() (<-chan outgoingMessage, func()) {
	c := &client{send: make(chan outgoingMessage, 32)}
	h.register(c)
	return c.send, func() { h.unregister(c) }
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// broadcast queues an event for every client. Clients that cannot keep up
// are dropped rather than blocking the controller.
func (h *Hub) broadcast(eventType string, data interface{}) {
	msg := outgoingMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}

	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// AppendTurn implements render.Surface.
func (h *Hub) AppendTurn(turn modelconv.Turn) {
	h.broadcast(eventTurn, turn)
}

// SetInputEnabled implements render.Surface.
func (h *Hub) SetInputEnabled(enabled bool) {
	h.broadcast(eventInput, map[string]bool{"enabled": enabled})
}

// SetConnectivity implements render.Surface.
func (h *Hub) SetConnectivity(online bool) {
	h.broadcast(eventConnectivity, map[string]bool{"online": online})
}

// ShowProductPanel implements render.Surface.
func (h *Hub) ShowProductPanel(view render.ProductView) {
	h.broadcast(eventProductPanel, view)
}

// ShowOrderPanel implements render.Surface.
func (h *Hub) ShowOrderPanel(view render.OrderView) {
	h.broadcast(eventOrderPanel, view)
}

// ClearPanels implements render.Surface.
func (h *Hub) ClearPanels() {
	h.broadcast(eventClearPanels, nil)
}
