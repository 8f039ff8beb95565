package widget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	conversationService "github.com/megamarket/assistant-widget/internal/service/conversation"
	"github.com/megamarket/assistant-widget/pkg/utils"
)

// Handler exposes the conversation controller over HTTP: a REST surface for
// simple clients and a websocket for the live widget.
type Handler struct {
	svc      *conversationService.Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// New creates the widget handler around a controller and its hub.
func New(svc *conversationService.Service, hub *Hub) *Handler {
	return &Handler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts widget routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.handleState)
	r.Post("/messages", h.handleSubmit)
	r.Post("/actions", h.handleAction)
	r.Post("/connectivity/retry", h.handleRetryConnectivity)
	r.Get("/ws", h.handleWebSocket)
	r.Get("/events", h.handleEvents)
}

// handleEvents streams surface events as Server-Sent Events, for embedders
// that cannot hold a websocket open.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.hub.subscribe()
	defer cancel()

	utils.SendSSEEvent(w, flusher, eventState, h.svc.Snapshot())

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, msg.Type, msg.Data)
		}
	}
}

// handleState returns the current conversation snapshot.
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Snapshot())
}

// handleSubmit runs one user message through the state machine and returns
// the updated snapshot once the assistant has answered (or the failure turn
// is in place).
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Submit(r.Context(), payload.Text); err != nil {
		switch {
		case errors.Is(err, conversationService.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, "message is empty")
		case errors.Is(err, conversationService.ErrAwaitingReply):
			utils.RespondError(w, http.StatusConflict, "a reply is already pending")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.svc.Snapshot())
}

// handleAction forwards a cart or order intent.
func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Action  string `json:"action"`
		SKU     string `json:"sku"`
		OrderID string `json:"orderId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch payload.Action {
	case "add_to_cart":
		err = h.svc.AddToCart(r.Context(), payload.SKU)
	case "track", "cancel":
		err = h.svc.OrderAction(r.Context(), payload.Action, payload.OrderID)
	default:
		utils.RespondError(w, http.StatusBadRequest, "unknown action")
		return
	}

	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleRetryConnectivity re-probes the assistant endpoint.
func (h *Handler) handleRetryConnectivity(w http.ResponseWriter, r *http.Request) {
	online := h.svc.CheckConnectivity(r.Context())
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"online": online})
}
