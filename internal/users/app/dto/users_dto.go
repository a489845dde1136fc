// Package dto содержит структуры запросов и ответов HTTP API пользователей.
package dto

import (
	"time"
)

// CreateUserRequest содержит данные для создания пользователя.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// UpdateUserRequest содержит данные для частичного обновления пользователя.
// Отсутствующее поле оставляет текущее значение без изменений.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserResponse содержит информацию о пользователе для ответа.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse содержит страницу пользователей и информацию о пагинации.
type ListUsersResponse struct {
	Users      []*UserResponse `json:"users"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ErrorResponse содержит описание ошибки для ответа.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
