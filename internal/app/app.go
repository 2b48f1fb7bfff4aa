package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/linemk/trading-backend/internal/config"
	security "github.com/linemk/trading-backend/internal/jwt-new"
	"github.com/linemk/trading-backend/internal/lib/passhash"
	"github.com/linemk/trading-backend/internal/service"
	"github.com/linemk/trading-backend/internal/storage"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
	Router http.Handler
}

// NewApp создаёт новый экземпляр App: подключение к БД, сервисы и роутер.
// Все зависимости (пул соединений, секрет подписи) передаются явно, глобального состояния нет.
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	router, err := newRouterFromConfig(log, cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		Config: cfg,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

func newRouterFromConfig(log *slog.Logger, cfg *config.Config, db *sql.DB) (http.Handler, error) {
	hasher, err := passhash.New(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to init password hasher: %w", err)
	}
	tokens, err := security.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to init token manager: %w", err)
	}

	// реализация слоя по работе с БД
	userRepo := storage.NewUserRepository(db)

	return NewRouter(log, Deps{
		AuthService:    service.NewAuthService(log, userRepo, hasher, tokens),
		AccountService: service.NewAccountService(log, userRepo),
		Tokens:         tokens,
		DB:             db,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}), nil
}
