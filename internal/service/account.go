package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/linemk/trading-backend/internal/storage"
)

// ErrAccountNotFound - токен валиден, но аккаунта с таким id нет
var ErrAccountNotFound = errors.New("account not found")

// AccountService определяет операции над балансом пользователя.
type AccountService interface {
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) error
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) error
}

type accountService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
}

func NewAccountService(log *slog.Logger, userRepo storage.UserStorage) AccountService {
	return &accountService{
		log:      log,
		userRepo: userRepo,
	}
}

func (s *accountService) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	const op = "service.AccountService.Balance"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", userID),
	)

	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("account not found")
			return decimal.Zero, ErrAccountNotFound
		}
		logger.Error("failed to get balance", slog.Any("error", err))
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// Deposit увеличивает баланс на amount. Знак и величина amount не проверяются.
func (s *accountService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return s.adjust(ctx, "service.AccountService.Deposit", userID, amount)
}

// Withdraw уменьшает баланс на amount. Проверки на уход в минус нет.
func (s *accountService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return s.adjust(ctx, "service.AccountService.Withdraw", userID, amount.Neg())
}

func (s *accountService) adjust(ctx context.Context, op string, userID int64, delta decimal.Decimal) error {
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", userID),
		slog.String("delta", delta.String()),
	)
	logger.Info("adjusting balance")

	// повторов нет: операция не идемпотентна
	if err := s.userRepo.AdjustBalance(ctx, userID, delta); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("account not found")
			return ErrAccountNotFound
		}
		logger.Error("failed to adjust balance", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
