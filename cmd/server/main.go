package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/cache"
	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded; using process environment")
	}
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("env", cfg.Env)
	slog.SetDefault(logger)
	loc := cfg.Location()

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	settingsRepo := repository.NewSettingsRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	store := repository.NewStore(db, roomRepo, reservationRepo)

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = settingsRepo.Bootstrap(bootCtx)
	cancel()
	if err != nil {
		logger.Error("settings bootstrap failed", "err", err)
		os.Exit(1)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	settings := cache.NewSettingsCache(settingsRepo, rdb, config.LoadSettingsCacheConfig())

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL)
	} else {
		logger.Warn("AMQP_URL not set; reservation events are not published")
	}

	clock := service.SystemClock{}
	reservations := service.NewReservationService(store, settings, events, clock, loc)
	rooms := service.NewRoomService(roomRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, settings)
	status := service.NewStatusService(roomRepo, reservationRepo, settings, clock, loc)

	e := echo.New()
	e.HideBanner = true
	middleware.Register(e, logger)
	router.RegisterRoutes(e, router.Handlers{
		Health:       handler.Health(db),
		Settings:     handler.NewSettingsHandler(settingsSvc),
		Rooms:        handler.NewRoomHandler(rooms),
		Reservations: handler.NewReservationHandler(reservations),
		Status:       handler.NewStatusHandler(status),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "timezone", loc.String())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
	logger.Info("server stopped")
}
