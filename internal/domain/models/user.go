package models

import "github.com/shopspring/decimal"

// DefaultBalance - баланс, с которым создаётся каждый новый аккаунт
var DefaultBalance = decimal.NewFromInt(1000)

// User представляет аккаунт пользователя
type User struct {
	ID       int64
	Email    string
	PassHash string
	Balance  decimal.Decimal
}
