package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"gate-tutor-backend/internal/app"
	"gate-tutor-backend/internal/config"
	"gate-tutor-backend/internal/logger"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration error: %v", err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer lg.Sync()

	lg.Info("Starting GATE tutor backend", "env", cfg.Env, "store", cfg.StoreDriver)

	// ──── Step 2: Wire store, AI relay and routes ────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Error("Application wiring failed", "error", err)
		os.Exit(1)
	}

	// ──── Step 3: Start HTTP Server ────
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		lg.Error("Failed to listen", "port", cfg.Port, "error", err)
		_ = application.Close(context.Background())
		os.Exit(1)
	}

	lg.Info("GATE backend ready", "addr", "http://localhost:"+cfg.Port, "api", "http://localhost:"+cfg.Port+"/api")

	// Serve returns only after in-flight requests drain and resources are released.
	if err := application.Serve(ctx, ln); err != nil {
		lg.Error("Server stopped with errors", "error", err)
		lg.Sync()
		os.Exit(1)
	}
	lg.Info("Server stopped")
}
