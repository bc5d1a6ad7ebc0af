package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/trailcolombo/booking-api/internal/config"
	"github.com/trailcolombo/booking-api/internal/database"
	"github.com/trailcolombo/booking-api/internal/handler"
	"github.com/trailcolombo/booking-api/internal/logger"
	"github.com/trailcolombo/booking-api/internal/middleware"
	"github.com/trailcolombo/booking-api/internal/notifier"
	"github.com/trailcolombo/booking-api/internal/repository"
	"github.com/trailcolombo/booking-api/internal/router"
)

func main() {
	_ = godotenv.Load() // best effort; deployments usually set the environment directly

	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg := config.Load() // exits when JWT_SECRET is missing
	limits := config.LoadRateLimits()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("open database failed", "path", cfg.DatabasePath, "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("migrate failed", "error", err)
	}

	var counters middleware.CounterStore
	if rdb := config.NewRedisClient(); rdb != nil {
		counters = &middleware.RedisCounter{RDB: rdb}
		slog.Info("rate limiting backed by redis")
	} else {
		counters = middleware.NewMemoryCounter()
		slog.Info("rate limiting backed by in-process counters")
	}

	var notify notifier.Notifier = notifier.Log{}
	if cfg.RabbitURL != "" {
		notify = &notifier.AMQP{URL: cfg.RabbitURL}
		slog.Info("booking notifications published to queue")
	}

	e := echo.New()
	router.Register(e, router.Deps{
		Cfg:      cfg,
		Limits:   limits,
		Counters: counters,
		Admin:    handler.NewAdminHandler(cfg, repository.NewAdminRepo(db)),
		Tours:    handler.NewTourHandler(repository.NewTourRepo(db)),
		Bookings: handler.NewBookingHandler(repository.NewBookingRepo(db), notify),
	})

	addr := cfg.Host + ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
