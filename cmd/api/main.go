package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/logos-engine/internal/config"
	"github.com/jwebster45206/logos-engine/internal/handlers"
	"github.com/jwebster45206/logos-engine/internal/logger"
	"github.com/jwebster45206/logos-engine/internal/middleware"
	"github.com/jwebster45206/logos-engine/internal/services"
	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/turn"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Logos Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"trust_store", cfg.RedisURL != "",
		"world_engine", cfg.WorldEngineURL != "")

	personas, err := disclosure.LoadPersonas(cfg.PersonaFile)
	if err != nil {
		log.Error("Failed to load personas", "error", err, "file", cfg.PersonaFile)
		os.Exit(1)
	}

	engine := turn.NewEngine(personas, nil, nil, nil, log)

	// Optional collaborators stay untyped nil when not configured.
	var (
		store   services.Store
		reader  turn.SnapshotReader
		links   capability.LinkRecorder = capability.SlogRecorder{Logger: log}
		backend capability.Backend
	)

	if cfg.RedisURL != "" {
		redisService, err := services.NewRedisService(cfg.RedisURL, log)
		if err != nil {
			log.Error("Failed to configure trust store", "error", err)
			os.Exit(1)
		}

		storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer storeCancel()
		if err := redisService.WaitForConnection(storeCtx); err != nil {
			log.Error("Failed to connect to trust store", "error", err)
			os.Exit(1)
		}
		log.Info("Trust store connection established successfully")

		store, reader, links = redisService, redisService, redisService
	}

	if cfg.WorldEngineURL != "" {
		backend = services.NewWorldEngineClient(cfg.WorldEngineURL, cfg.RequestTimeout, log)
	}

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, backend != nil, log))
	mux.Handle("/v1/turn", handlers.NewTurnHandler(engine, reader, log))
	mux.Handle("/v1/tools/execute", handlers.NewToolsHandler(engine, reader, backend, links, log))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if store != nil {
		if err := store.Close(); err != nil {
			log.Error("Error closing trust store connection", "error", err)
		}
	}

	log.Info("Server exited")
}
