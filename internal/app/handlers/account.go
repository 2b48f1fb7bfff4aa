package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/linemk/trading-backend/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/trading-backend/internal/service"
)

// AmountRequest - тело запроса для deposit/withdraw.
// amount обязателен и должен быть числом (или строкой с числом); знак не проверяется.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// BalanceHandler обрабатывает GET /balance.
func BalanceHandler(log *slog.Logger, accountService service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.BalanceHandler"
		logger := log.With(slog.String("op", op))

		// Извлечение userID из контекста, который установил JWT‑middleware
		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeError(w, logger, http.StatusUnauthorized, "Unauthorized")
			return
		}

		balance, err := accountService.Balance(r.Context(), userID)
		if err != nil {
			writeAccountError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, BalanceResponse{Balance: balance})
	}
}

// DepositHandler обрабатывает POST /deposit.
func DepositHandler(log *slog.Logger, accountService service.AccountService) http.HandlerFunc {
	return amountHandler(log, "handlers.DepositHandler", accountService.Deposit, "Deposit successful")
}

// WithdrawHandler обрабатывает POST /withdraw. Баланс может уйти в минус.
func WithdrawHandler(log *slog.Logger, accountService service.AccountService) http.HandlerFunc {
	return amountHandler(log, "handlers.WithdrawHandler", accountService.Withdraw, "Withdraw successful")
}

type adjustFunc func(ctx context.Context, userID int64, amount decimal.Decimal) error

func amountHandler(log *slog.Logger, op string, adjust adjustFunc, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeError(w, logger, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req AmountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "amount is required")
			return
		}
		if !fitsNumeric(*req.Amount) {
			logger.Error("invalid request: amount out of range", slog.Int("exponent", int(req.Amount.Exponent())))
			writeError(w, logger, http.StatusBadRequest, "amount out of range")
			return
		}

		if err := adjust(r.Context(), userID, *req.Amount); err != nil {
			writeAccountError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, MessageResponse{Message: message})
	}
}

// пределы типа NUMERIC в postgres
const (
	maxNumericIntDigits  = 131072
	maxNumericFracDigits = 16383
)

// fitsNumeric проверяет число по экспоненте и длине коэффициента, не раскрывая его в строку:
// String() для 1e300000000 строит строку из 10^8 цифр.
func fitsNumeric(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -maxNumericFracDigits {
		return false
	}
	digits := int64(len(d.Coefficient().Text(10)))
	if d.Sign() < 0 {
		digits--
	}
	return digits+exp <= maxNumericIntDigits
}

// аккаунт из токена не найден - считаем токен недействительным
func writeAccountError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, service.ErrAccountNotFound) {
		logger.Warn("account from token not found")
		writeError(w, logger, http.StatusUnauthorized, "Unauthorized")
		return
	}
	logger.Error("account operation failed", slog.Any("error", err))
	writeError(w, logger, http.StatusInternalServerError, "internal server error")
}
