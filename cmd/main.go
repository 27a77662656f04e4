package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/maseurodrigo/TipStream-sub000/internal/config"
	"github.com/maseurodrigo/TipStream-sub000/internal/handler"
	"github.com/maseurodrigo/TipStream-sub000/internal/hub"
	"github.com/maseurodrigo/TipStream-sub000/internal/service"
	"github.com/maseurodrigo/TipStream-sub000/internal/store"
	pkglog "github.com/maseurodrigo/TipStream-sub000/pkg/log"
)

func main() {
	// Local development overrides; absent in production
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Service: "tipstream-relay"})
	logger := pkglog.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting tipstream-relay")

	// Create hub
	h := hub.NewHub()
	go h.Run()

	// Create session state store
	stateStore := store.NewMemorySessionStateStore()

	// Create service
	svc := service.NewRelayService(h, stateStore)

	// Create handlers
	wsHandler := handler.NewWSHandler(h, svc, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(svc)

	// Setup routes
	router := mux.NewRouter()

	// WebSocket endpoint
	router.HandleFunc("/ws", wsHandler.HandleWebSocket)

	// HTTP API endpoints
	router.HandleFunc("/api/v1/sessions/{session_id}/members", httpHandler.GetMembers).Methods("GET")
	router.HandleFunc("/stats", httpHandler.GetStats).Methods("GET")
	router.HandleFunc("/health", httpHandler.HealthCheck).Methods("GET")

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     pkglog.HTTPMiddleware(logger)(router),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("tipstream-relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or bind failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server error")
	case <-quit:
	}

	logger.Info().Msg("shutting down tipstream-relay")

	h.Stop() // close all WS clients, stop the hub loop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("tipstream-relay stopped")
}
