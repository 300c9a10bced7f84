// Package main is the entry point for the devforum server.
//
// The main package is kept minimal — its job is to:
//  1. Read configuration (config.Load reads .env and the environment)
//  2. Create the process-wide dependencies (logger)
//  3. Build and start the server
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). A project can grow additional executables
// (cmd/migrate, cmd/cli) as siblings under cmd/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/devforum/internal/config"
	"github.com/sakif/devforum/internal/server"
)

func main() {
	cfg := config.Load()

	// Structured text logs to the terminal. Debug level locally; Info in
	// any deployed environment to reduce noise.
	level := slog.LevelInfo
	if cfg.AppEnv == "local" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if cfg.JWTSecret == "" {
		// The server is useless without sessions — fail loudly at startup
		// instead of rejecting every sign-in at runtime.
		logger.Error("JWT_SECRET is not set; generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	// Ensure the SQLite data directory exists before opening the database.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
