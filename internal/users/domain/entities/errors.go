package entities

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки домена пользователя.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
)

// ValidationError описывает поле, не прошедшее проверку, и причину отказа.
// Возникает строго до обращения к хранилищу.
type ValidationError struct {
	Field  string
	Reason string
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError создает ошибку валидации для указанного поля.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError означает, что пользователь с указанным ID не существует.
type NotFoundError struct {
	ID string
}

// Error реализует интерфейс error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("User #%s not found", e.ID)
}

// Unwrap позволяет сопоставлять ошибку с ErrUserNotFound через errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrUserNotFound
}

// NewNotFoundError создает ошибку отсутствия пользователя.
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

// ConflictError означает нарушение ограничения уникальности для поля.
type ConflictError struct {
	Field string
}

// Error реализует интерфейс error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// Unwrap позволяет сопоставлять ошибку с ErrEmailAlreadyInUse через errors.Is.
func (e *ConflictError) Unwrap() error {
	return ErrEmailAlreadyInUse
}

// NewConflictError создает ошибку конфликта уникальности.
func NewConflictError(field string) *ConflictError {
	return &ConflictError{Field: field}
}
