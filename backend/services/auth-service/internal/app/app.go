package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"boatwatch/backend/libs/db"
	"boatwatch/backend/services/auth-service/internal/config"
	httpserver "boatwatch/backend/services/auth-service/internal/http"
	"boatwatch/backend/services/auth-service/internal/http/handlers"
	"boatwatch/backend/services/auth-service/internal/password"
	"boatwatch/backend/services/auth-service/internal/repository"
	"boatwatch/backend/services/auth-service/internal/service"
)

// App wires auth service dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	hasher := password.NewBcryptHasher(0)
	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authService := service.NewAuthService(userRepo, hasher, tokenService, logger)

	routes := httpserver.Routes{
		Signup: handlers.NewSignupHandler(authService),
		Login:  handlers.NewLoginHandler(authService),
		Me:     handlers.NewMeHandler(authService),
		Health: handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
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
}
