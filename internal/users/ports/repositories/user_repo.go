// Package repositories определяет интерфейсы для операций сохранения данных пользователей.
package repositories

import (
	"context"

	"userhub/internal/users/domain/entities"
)

// UserRepository определяет интерфейс хранилища пользователей.
// Хранилище является единственным арбитром уникальности email:
// Store возвращает entities.ErrEmailAlreadyInUse при нарушении ограничения.
type UserRepository interface {
	Store(ctx context.Context, user *entities.User) error

	// FindByID возвращает (nil, nil), если пользователь не найден.
	FindByID(ctx context.Context, id string) (*entities.User, error)

	// FindPage возвращает срез пользователей в порядке вставки и общее количество.
	FindPage(ctx context.Context, offset, limit int) ([]*entities.User, int, error)

	Delete(ctx context.Context, user *entities.User) error
}
