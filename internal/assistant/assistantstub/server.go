// Package assistantstub is a development stand-in for the remote assistant
// service. It speaks the same wire protocol the widget expects — POST /chat
// with {message, session_id, user_id}, GET /health — and answers from
// fixture data, with an optional model-backed path for free text.
package assistantstub

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/megamarket/assistant-widget/internal/model/catalog"
	"github.com/megamarket/assistant-widget/pkg/utils"
)

const fallbackReply = "Xin lỗi, tôi không hiểu yêu cầu của bạn. Bạn có thể hỏi về sản phẩm, đơn hàng, hoặc các dịch vụ của Mega Market."

// Server answers widget chat requests from fixtures.
type Server struct {
	apiKey    string
	responder *ModelResponder
}

// Option configures the stub server.
type Option func(*Server)

// WithAPIKey requires X-API-Key on chat requests.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithModelResponder answers unrecognized messages through a chat model
// instead of the canned fallback line.
func WithModelResponder(r *ModelResponder) Option {
	return func(s *Server) { s.responder = r }
}

// NewServer builds the stub.
func NewServer(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the stub's HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Head("/chat", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/chat", s.handleChat)

	return r
}

// chatReply is the wire shape of an assistant response.
type chatReply struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" && r.Header.Get("X-API-Key") != s.apiKey {
		utils.RespondError(w, http.StatusUnauthorized, "invalid or missing API key")
		return
	}

	var payload struct {
		Message   string  `json:"message"`
		SessionID string  `json:"session_id"`
		UserID    *string `json:"user_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	log.Printf("[stub] session=%s message=%q", payload.SessionID, payload.Message)

	parsed := analyzeIntent(payload.Message)
	switch parsed.Kind {
	case intentProductSearch:
		utils.RespondJSON(w, http.StatusOK, s.productReply(parsed.Keywords))
	case intentOrderStatus:
		utils.RespondJSON(w, http.StatusOK, s.orderReply(parsed.OrderID))
	default:
		utils.RespondJSON(w, http.StatusOK, s.freeTextReply(r, payload.Message))
	}
}

// productReply mirrors the production response generator: per-keyword
// results plus a summary message.
func (s *Server) productReply(keywords []string) chatReply {
	results := make(map[string]catalog.KeywordResult, len(keywords))
	total := 0

	for _, keyword := range keywords {
		products := fixtureCatalog[keyword]
		results[keyword] = catalog.KeywordResult{
			TotalCount: len(products),
			Products:   products,
		}
		total += len(products)
	}

	joined := strings.Join(keywords, ", ")
	message := fmt.Sprintf("Không tìm thấy sản phẩm nào cho từ khóa: %s", joined)
	if total > 0 {
		message = fmt.Sprintf("Tìm thấy %d sản phẩm liên quan đến từ khóa: %s", total, joined)
	}

	return chatReply{
		Message: message,
		Type:    "product",
		Data: catalog.ProductSearchResult{
			Keywords: keywords,
			Results:  results,
		},
	}
}

func (s *Server) orderReply(orderID string) chatReply {
	if orderID == "" {
		return chatReply{
			Message: "Vui lòng cung cấp mã đơn hàng để tôi kiểm tra giúp bạn.",
			Type:    "none",
		}
	}

	order, ok := fixtureOrders[orderID]
	if !ok {
		return chatReply{
			Message: fmt.Sprintf("Xin lỗi, không thể lấy thông tin đơn hàng #%s: không tìm thấy đơn hàng.", orderID),
			Type:    "none",
		}
	}

	return chatReply{
		Message: fmt.Sprintf("Đơn hàng #%s đang trong trạng thái %s.", order.OrderID, catalog.StatusLabel(order.Status)),
		Type:    "order",
		Data:    order,
	}
}

func (s *Server) freeTextReply(r *http.Request, message string) chatReply {
	if s.responder != nil {
		reply, err := s.responder.Generate(r.Context(), message)
		if err == nil {
			return chatReply{Message: reply, Type: "none"}
		}
		log.Printf("[stub] model generation failed, using canned reply: %v", err)
	}
	return chatReply{Message: fallbackReply, Type: "none"}
}
