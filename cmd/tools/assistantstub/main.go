// Command assistantstub runs a local stand-in for the remote assistant
// service so the widget can be exercised end to end without the production
// backend.
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

	"github.com/megamarket/assistant-widget/internal/assistant/assistantstub"
	"github.com/megamarket/assistant-widget/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	opts := []assistantstub.Option{}
	if cfg.Stub.APIKey != "" {
		opts = append(opts, assistantstub.WithAPIKey(cfg.Stub.APIKey))
	}

	if cfg.Stub.ModelEnabled() {
		chatModel, err := cfg.Stub.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to create chat model: %v", err)
		} else if responder, err := assistantstub.NewModelResponder(ctx, chatModel); err != nil {
			log.Printf("warning: failed to build model responder: %v", err)
		} else {
			opts = append(opts, assistantstub.WithModelResponder(responder))
			log.Println("model-backed free-text replies enabled")
		}
	} else {
		log.Println("Ark credentials not configured, free-text replies use the canned fallback")
	}

	srv := &http.Server{
		Addr:              cfg.Stub.Addr,
		Handler:           assistantstub.NewServer(opts...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("assistant stub listening on %s", cfg.Stub.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}
}
