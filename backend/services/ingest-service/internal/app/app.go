package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"boatwatch/backend/libs/db"
	libredis "boatwatch/backend/libs/redis"
	"boatwatch/backend/services/ingest-service/internal/config"
	httpserver "boatwatch/backend/services/ingest-service/internal/http"
	"boatwatch/backend/services/ingest-service/internal/http/handlers"
	"boatwatch/backend/services/ingest-service/internal/notify"
	"boatwatch/backend/services/ingest-service/internal/repository"
	"boatwatch/backend/services/ingest-service/internal/service"
)

// App wires ingest service dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	var notifier service.InsertNotifier
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		notifier = notify.NewPublisher(redisClient)
	}

	boatRepo := repository.NewBoatRepository(sqlDB)
	telemetryRepo := repository.NewTelemetryRepository(sqlDB)

	resolver := service.NewResolver(boatRepo, service.ResolverConfig{
		Policy:              service.Policy(cfg.Ingest.Policy),
		AllowAnonymous:      cfg.Ingest.AllowAnonymous,
		DefaultBoatName:     cfg.Ingest.DefaultBoatName,
		DefaultDeviceSecret: cfg.Ingest.DefaultDeviceSecret,
	}, logger)

	ingestService := service.NewIngestService(
		resolver,
		service.NewNormalizer(),
		telemetryRepo,
		notifier,
		cfg.Ingest.VerifySecret,
		logger,
	)

	routes := httpserver.Routes{
		Telemetry: handlers.NewTelemetryHandler(ingestService, logger),
		Health:    handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
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
