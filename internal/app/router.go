package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/linemk/trading-backend/internal/app/handlers"
	"github.com/linemk/trading-backend/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/trading-backend/internal/lib/logger/handlers/urllog"
	"github.com/linemk/trading-backend/internal/service"
)

// Deps - всё, что нужно роутеру
type Deps struct {
	AuthService    service.AuthServiceInterface
	AccountService service.AccountService
	Tokens         jwtmiddleware.TokenParser
	DB             handlers.Pinger
	AllowedOrigins []string
}

// NewRouter собирает chi-роутер со всеми эндпоинтами
func NewRouter(log *slog.Logger, deps Deps) http.Handler {
	router := chi.NewRouter()

	// настройка middleware, CORS первым: preflight не проходит через остальную цепочку
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(urllog.CustomLoggerMiddleware(log))
	// паника в одном запросе не роняет процесс
	router.Use(middleware.Recoverer)

	router.Get("/", handlers.RootHandler())
	if deps.DB != nil {
		router.Get("/health", handlers.HealthHandler(log, deps.DB))
	}

	router.Post("/signup", handlers.SignupHandler(log, deps.AuthService))
	router.Post("/login", handlers.LoginHandler(log, deps.AuthService))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(log, deps.Tokens))

		r.Get("/balance", handlers.BalanceHandler(log, deps.AccountService))
		r.Post("/deposit", handlers.DepositHandler(log, deps.AccountService))
		r.Post("/withdraw", handlers.WithdrawHandler(log, deps.AccountService))
	})

	return router
}
