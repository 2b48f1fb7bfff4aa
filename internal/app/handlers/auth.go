package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/trading-backend/internal/service"
)

// предел длины пароля для bcrypt в байтах (validator считает max в символах)
const maxPasswordBytes = 72

// SignupRequest - запрос на регистрацию
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse представляет структуру ответа с JWT-токеном
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// SignupHandler обрабатывает POST /signup
func SignupHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SignupHandler"
		logger := log.With(slog.String("op", op))

		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}
		if len(req.Password) > maxPasswordBytes {
			logger.Error("invalid request: password too long", slog.Int("bytes", len(req.Password)))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		userID, err := authService.Signup(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrDuplicateEmail) {
				writeError(w, logger, http.StatusBadRequest, "Email already exists")
				return
			}
			logger.Error("signup failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, SignupResponse{Message: "User created", UserID: userID})
	}
}

// LoginHandler обрабатывает POST /login и возвращает токен доступа
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		token, err := authService.Login(r.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, logger, http.StatusBadRequest, "User not found")
			return
		case errors.Is(err, service.ErrInvalidPassword):
			writeError(w, logger, http.StatusBadRequest, "Invalid password")
			return
		case err != nil:
			logger.Error("login failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, LoginResponse{Message: "Login successful", Token: token})
	}
}
