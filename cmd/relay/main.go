// The relay server: an in-memory store-and-forward service for pre-key
// bundles and sealed envelopes. It holds no secrets and no durable state.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"

	"sigil/internal/relay"
)

func main() {
	logger := slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("loading .env", "error", err)
	}
	addr := os.Getenv("SIGIL_RELAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := relay.NewServer(relay.NewMemoryStore(), logger)
	e := srv.Handler()

	logger.Info("relay listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		logger.Error("relay stopped", "error", err)
		os.Exit(1)
	}
}
