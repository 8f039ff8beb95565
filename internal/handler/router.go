package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/megamarket/assistant-widget/internal/handler/widget"
	conversationService "github.com/megamarket/assistant-widget/internal/service/conversation"
	"github.com/megamarket/assistant-widget/pkg/utils"
)

// NewRouter wires HTTP routes to the conversation controller.
func NewRouter(svc *conversationService.Service, hub *widget.Hub, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	widgetHandler := widget.New(svc, hub)

	r.Route("/api/widget", func(api chi.Router) {
		widgetHandler.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
