/*
Package main is the entry point for the EchoFlow relay server.

It is responsible for loading configuration, initializing the global logging system,
wiring the relay core (registry, group store, hub, router, content filter), setting
up the HTTP server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manuav007/EchoFlow/internal/app/auth"
	"github.com/manuav007/EchoFlow/internal/app/filter"
	"github.com/manuav007/EchoFlow/internal/app/relay"
	"github.com/manuav007/EchoFlow/internal/configs"
	"github.com/manuav007/EchoFlow/internal/handler"
	"github.com/manuav007/EchoFlow/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("banned_word_overrides", len(cfg.BannedWords)).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the relay core
	bannedTerms := cfg.BannedWords
	if len(bannedTerms) == 0 {
		bannedTerms = filter.DefaultTerms
	}
	contentFilter := filter.New(bannedTerms)

	registry := relay.NewRegistry()
	groups := relay.NewGroupStore()
	hub := relay.NewHub()
	router := relay.NewRouter(registry, groups, hub, contentFilter.Sanitize)

	deps := &handler.AppDeps{
		Config: cfg,
		Hub:    hub,
		Relay:  router,
		Auth:   auth.NewStore(cfg.Users),
	}

	// Setup HTTP server and routes
	httpRouter := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("EchoFlow Relay Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
