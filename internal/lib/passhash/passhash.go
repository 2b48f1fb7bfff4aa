// Package passhash хэширует и проверяет пароли через bcrypt.
package passhash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost - стоимость хэширования по умолчанию
const DefaultCost = 10

// Hasher хэширует пароли с заданной стоимостью (bcrypt сам добавляет соль)
type Hasher struct {
	cost int
}

// New создаёт Hasher; cost вне допустимого диапазона bcrypt - ошибка.
func New(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("passhash: cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("passhash: %w", err)
	}
	return string(hash), nil
}

// Verify сравнивает пароль с хэшем, сравнение внутри bcrypt выполняется за постоянное время
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
