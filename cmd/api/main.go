package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/grid-engine/internal/config"
	"github.com/jwebster45206/grid-engine/internal/handlers"
	"github.com/jwebster45206/grid-engine/internal/logger"
	"github.com/jwebster45206/grid-engine/internal/middleware"
	"github.com/jwebster45206/grid-engine/internal/services"
	"github.com/jwebster45206/grid-engine/internal/storage"
	"github.com/jwebster45206/grid-engine/pkg/chat"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/engine"
	"github.com/jwebster45206/grid-engine/pkg/srd"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Grid Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"agent_provider", cfg.AgentProvider)

	var agent chat.Agent
	switch strings.ToLower(cfg.AgentProvider) {
	case "venice":
		if cfg.VeniceAPIKey == "" {
			log.Error("Venice API key is required when using venice provider")
			os.Exit(1)
		}
		agent = services.NewVeniceAgent(cfg.VeniceAPIKey, cfg.ModelName)
		log.Info("Using Venice narrative agent")
	case "mock":
		agent = services.NewMockAgent()
		log.Info("Using mock narrative agent")
	default:
		log.Error("Invalid agent provider specified", "provider", cfg.AgentProvider, "supported", []string{"venice", "mock"})
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	// Probe the stat API; run with fixed defaults when it is down.
	var provider srd.StatProvider
	srdClient := services.NewSRDClient(cfg.SRDAPIURL, services.NewMemoryCache(), log)
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := srdClient.ListMonsters(probeCtx); err != nil {
		log.Warn("Stat API unavailable, characters will use fixed defaults", "error", err)
	} else {
		provider = srdClient
		log.Info("Stat API connection established", "url", cfg.SRDAPIURL)
	}
	probeCancel()

	roller := dice.NewSource(cfg.RNGSeed)
	factory := func(gs *state.GameState) *engine.Engine {
		return engine.New(gs, roller, agent, log)
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(store, provider, log)
	actionsHandler := handlers.NewActionsHandler(store, provider, factory, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/actions") {
			actionsHandler.ServeHTTP(w, r)
			return
		}
		sessionHandler.ServeHTTP(w, r)
	}))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
