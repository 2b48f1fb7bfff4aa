package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/trading-backend/internal/domain/models"
	"github.com/linemk/trading-backend/internal/storage"
)

var (
	insertUserQuery    = regexp.QuoteMeta("INSERT INTO users (email, password, balance) VALUES ($1, $2, $3) RETURNING id")
	selectByEmailQuery = regexp.QuoteMeta("SELECT id, email, password, balance FROM users WHERE email = $1")
	selectBalanceQuery = regexp.QuoteMeta("SELECT balance FROM users WHERE id = $1")
	adjustBalanceQuery = regexp.QuoteMeta("UPDATE users SET balance = balance + $1 WHERE id = $2")
)

func TestCreateUser_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery(insertUserQuery).
		WithArgs("a@x.com", "hash", "1000").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	user, err := repo.CreateUser(context.Background(), &models.User{
		Email:    "a@x.com",
		PassHash: "hash",
		Balance:  models.DefaultBalance,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	// эмулируем нарушение уникального индекса по email
	mock.ExpectQuery(insertUserQuery).
		WithArgs("a@x.com", "hash", "1000").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	user, err := repo.CreateUser(context.Background(), &models.User{
		Email:    "a@x.com",
		PassHash: "hash",
		Balance:  models.DefaultBalance,
	})
	assert.ErrorIs(t, err, storage.ErrEmailExists)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_OtherError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery(insertUserQuery).
		WithArgs("a@x.com", "hash", "1000").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.CreateUser(context.Background(), &models.User{
		Email:    "a@x.com",
		PassHash: "hash",
		Balance:  models.DefaultBalance,
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrEmailExists, "only the unique constraint maps to a duplicate email")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password", "balance"}).
		AddRow(int64(7), "a@x.com", "hash", "1500.25")
	mock.ExpectQuery(selectByEmailQuery).WithArgs("a@x.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "hash", user.PassHash)
	assert.True(t, decimal.RequireFromString("1500.25").Equal(user.Balance))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery(selectByEmailQuery).WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "balance"}))

	user, err := repo.GetUserByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery(selectBalanceQuery).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("-500"))

	balance, err := repo.GetBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "-500", balance.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalance_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery(selectBalanceQuery).WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))

	_, err = repo.GetBalance(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalance_SingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	// никаких SELECT перед обновлением: инкремент выполняется одним запросом
	mock.ExpectExec(adjustBalanceQuery).WithArgs("500", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(adjustBalanceQuery).WithArgs("-2000", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, repo.AdjustBalance(ctx, 1, decimal.NewFromInt(500)))
	require.NoError(t, repo.AdjustBalance(ctx, 1, decimal.NewFromInt(2000).Neg()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalance_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectExec(adjustBalanceQuery).WithArgs("10", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.AdjustBalance(context.Background(), 99, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalance_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectExec(adjustBalanceQuery).WithArgs("10", int64(1)).
		WillReturnError(errors.New("db error"))

	err = repo.AdjustBalance(context.Background(), 1, decimal.NewFromInt(10))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
