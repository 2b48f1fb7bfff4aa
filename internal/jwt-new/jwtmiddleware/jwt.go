package jwtmiddleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenParser проверяет токен и возвращает id пользователя
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewJWTMiddleware создаёт middleware для проверки bearer-токена.
// Любая ошибка (нет заголовка, неверный формат, истёкший или поддельный токен) - 401 с одним и тем же телом,
// конкретная причина пишется только в лог.
func NewJWTMiddleware(log *slog.Logger, tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "jwtmiddleware"
			logger := log.With(slog.String("op", op))

			// Извлекаем токен из заголовка Authorization (формат: "Bearer <token>")
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("missing token")
				unauthorized(w)
				return
			}
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Debug("invalid token format")
				unauthorized(w)
				return
			}

			userID, err := tokens.ParseToken(parts[1])
			if err != nil {
				logger.Debug("token rejected", slog.Any("error", err))
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: "Unauthorized"})
}

// FromContext извлекает userID из контекста.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
