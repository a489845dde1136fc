// Package entities определяет доменные сущности сервиса пользователей.
package entities

import "time"

// Ограничения на поля пользователя.
const (
	MaxNameLength  = 100
	MaxEmailLength = 100
)

// User представляет основную сущность домена пользователя.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser создает нового пользователя с указанным идентификатором, именем и email.
func NewUser(id, name, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
