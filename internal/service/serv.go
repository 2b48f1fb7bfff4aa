package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/trading-backend/internal/domain/models"
	"github.com/linemk/trading-backend/internal/storage"
)

var (
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)

// PasswordHasher хэширует и проверяет пароли
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer выпускает токены доступа для пользователя
type TokenIssuer interface {
	NewToken(userID int64) (string, error)
}

type AuthServiceInterface interface {
	Signup(ctx context.Context, email, password string) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	hasher   PasswordHasher
	tokens   TokenIssuer
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		log:      log,
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Signup регистрирует пользователя: хэширует пароль и создаёт аккаунт с начальным балансом.
// Если email уже занят, возвращается ErrDuplicateEmail.
func (a *AuthService) Signup(ctx context.Context, email, password string) (int64, error) {
	const op = "service.AuthService.Signup"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("registering user")

	passHash, err := a.hasher.Hash(password)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Email:    email,
		PassHash: passHash,
		Balance:  models.DefaultBalance,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			logger.Warn("email already exists")
			return 0, ErrDuplicateEmail
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return user.ID, nil
}

// Login проверяет пароль пользователя и выпускает токен доступа.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", ErrUserNotFound
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if !a.hasher.Verify(password, user.PassHash) {
		logger.Warn("invalid password")
		return "", ErrInvalidPassword
	}

	token, err := a.tokens.NewToken(user.ID)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}
