package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// The worker drains reservation.events into <LOG_DIR>/reservation.log.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded; using process environment")
	}
	cfg := config.LoadWorker()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("component", "reservation-consumer"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: cfg.AMQPURL, LogDir: cfg.LogDir}
	slog.Info("consuming", "queue", queue.ReservationEventsQueue, "log_dir", cfg.LogDir)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("consumer stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("consumer stopped")
}
