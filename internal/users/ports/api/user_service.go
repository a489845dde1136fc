// Package api определяет публичные интерфейсы бизнес-логики сервиса пользователей.
package api

import (
	"context"

	"userhub/internal/users/domain/entities"
)

// CreateUserInput содержит проверяемые данные для создания пользователя.
type CreateUserInput struct {
	Name  string
	Email string
}

// UpdateUserInput содержит частичные данные для обновления пользователя.
// Nil-поле означает "оставить без изменений".
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// UserPage представляет страницу пользователей вместе с метаданными пагинации.
type UserPage struct {
	Users      []*entities.User
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// UserUseCase определяет операции над ресурсом пользователя.
type UserUseCase interface {
	Create(ctx context.Context, input *CreateUserInput) (*entities.User, error)

	FindAll(ctx context.Context, page, pageSize int) (*UserPage, error)

	FindOne(ctx context.Context, id string) (*entities.User, error)

	Update(ctx context.Context, id string, input *UpdateUserInput) (*entities.User, error)

	Remove(ctx context.Context, id string) error
}
