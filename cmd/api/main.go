package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/megamarket/assistant-widget/internal/action"
	"github.com/megamarket/assistant-widget/internal/assistant"
	"github.com/megamarket/assistant-widget/internal/config"
	"github.com/megamarket/assistant-widget/internal/handler"
	"github.com/megamarket/assistant-widget/internal/handler/widget"
	conversationService "github.com/megamarket/assistant-widget/internal/service/conversation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	client := assistant.NewClient(assistant.Config{
		BaseURL: cfg.Assistant.BaseURL,
		APIKey:  cfg.Assistant.APIKey,
		Timeout: cfg.Assistant.Timeout,
	})

	hub := widget.NewHub()
	svc := conversationService.NewService(client, hub, action.LogSink{})
	if cfg.Assistant.UserID != "" {
		if err := svc.SetUserIdentity(cfg.Assistant.UserID); err != nil {
			log.Printf("warning: could not set user identity: %v", err)
		}
	}
	log.Printf("conversation %s ready for assistant at %s", svc.ConversationID(), cfg.Assistant.BaseURL)

	// The startup probe is advisory and must not delay serving.
	go func() {
		probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if svc.CheckConnectivity(probeCtx) {
			log.Println("assistant endpoint reachable")
		}
	}()

	router := handler.NewRouter(svc, hub, cfg.Server.AllowedOrigins)
	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("assistant widget listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
