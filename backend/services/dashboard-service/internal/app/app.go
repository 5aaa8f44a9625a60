package app

import (
	"context"
	"database/sql"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"boatwatch/backend/libs/db"
	libredis "boatwatch/backend/libs/redis"
	"boatwatch/backend/services/dashboard-service/internal/config"
	httpserver "boatwatch/backend/services/dashboard-service/internal/http"
	"boatwatch/backend/services/dashboard-service/internal/http/handlers"
	"boatwatch/backend/services/dashboard-service/internal/http/middleware"
	"boatwatch/backend/services/dashboard-service/internal/repository"
	"boatwatch/backend/services/dashboard-service/internal/service"
	"boatwatch/backend/services/dashboard-service/internal/subscriber"
	"boatwatch/backend/services/dashboard-service/internal/view"
	"boatwatch/backend/services/dashboard-service/internal/ws"
)

// App wires dashboard service dependencies.
type App struct {
	server     *httpserver.Server
	subscriber *subscriber.Subscriber
	db         *sql.DB
	redis      *goredis.Client
	logger     *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	boatRepo := repository.NewBoatRepository(sqlDB)
	telemetryView := repository.NewTelemetryView(sqlDB)

	fleet := service.NewFleetService(boatRepo, logger)
	registry := view.NewRegistry(telemetryView, logger)

	validator := middleware.NewTokenValidator(cfg.Auth.JWTSecret)
	manager := ws.NewManager()
	wsServer := ws.NewServer(manager, validator, cfg.WS.WriteTimeout, logger)

	sub := subscriber.NewSubscriber(redisClient, registry, manager, logger)

	routes := httpserver.Routes{
		Dashboard: handlers.NewDashboardHandler(fleet, registry, logger),
		Boats:     handlers.NewBoatsHandler(fleet, logger),
		DailyMax:  handlers.NewDailyMaxHandler(fleet, telemetryView, logger),
		Health:    handlers.NewHealthHandler(),
		WS:        wsServer.HandleWS,
		Validator: validator,
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:     server,
		subscriber: sub,
		db:         sqlDB,
		redis:      redisClient,
		logger:     logger,
	}, nil
}

// Run starts the pub/sub consumer and serves HTTP until the context ends.
func (a *App) Run(ctx context.Context) error {
	go func() {
		if err := a.subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("subscriber stopped", zap.Error(err))
		}
	}()
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
