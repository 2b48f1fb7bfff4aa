package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/linemk/trading-backend/internal/domain/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// код ошибки postgres для нарушения уникальности
const uniqueViolation = "23505"

// UserStorage описывает методы для работы с таблицей users.
type UserStorage interface {
	// CreateUser вставляет нового пользователя и возвращает его с присвоенным id.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail ищет пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetBalance возвращает текущий баланс пользователя.
	GetBalance(ctx context.Context, id int64) (decimal.Decimal, error)
	// AdjustBalance атомарно прибавляет delta к балансу (delta может быть отрицательной).
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (email, password, balance) VALUES ($1, $2, $3) RETURNING id",
		user.Email, user.PassHash, user.Balance,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id
	return user, nil
}

// получение уже существующего пользователя
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	user := &models.User{}
	row := r.db.QueryRowContext(ctx, "SELECT id, email, password, balance FROM users WHERE email = $1", email)
	if err := row.Scan(&user.ID, &user.Email, &user.PassHash, &user.Balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (r *userRepository) GetBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	const op = "storage.GetBalance"

	var balance decimal.Decimal
	if err := r.db.QueryRowContext(ctx, "SELECT balance FROM users WHERE id = $1", id).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// AdjustBalance - вычисление на стороне БД одним запросом, без чтения баланса в приложение
func (r *userRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	const op = "storage.AdjustBalance"

	res, err := r.db.ExecContext(ctx, "UPDATE users SET balance = balance + $1 WHERE id = $2", delta, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
