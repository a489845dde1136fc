// Package postgres содержит реализации репозиториев поверх PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/repositories"
	"userhub/pkg/logger"
)

// Код ошибки PostgreSQL для нарушения ограничения уникальности.
const uniqueViolationCode = "23505"

// PgxPoolInterface описывает используемое подмножество pgxpool.Pool,
// чтобы в тестах его мог заменить pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
// Ограничение users_email_key делает хранилище единственным арбитром
// уникальности email.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// Store сохраняет нового или обновленного пользователя одной атомарной операцией.
func (r *UserRepository) Store(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Store"))

	query := `
        INSERT INTO users (id, name, email, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = EXCLUDED.updated_at
    `

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Debug(ctx, "email uniqueness violated", zap.String("email", user.Email))
			return entities.ErrEmailAlreadyInUse
		}
		log.Error(ctx, "error storing user", zap.Error(err))
		return fmt.Errorf("error storing user: %w", err)
	}

	return nil
}

// FindByID находит пользователя по ID. Отсутствие не является ошибкой.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	query := `
        SELECT id, name, email, created_at, updated_at
        FROM users
        WHERE id = $1
    `

	var user entities.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, nil
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return &user, nil
}

// FindPage возвращает срез пользователей в порядке вставки и общее количество.
func (r *UserRepository) FindPage(ctx context.Context, offset, limit int) ([]*entities.User, int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindPage"))
	log.Debug(ctx, "listing users", zap.Int("offset", offset), zap.Int("limit", limit))

	var totalCount int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&totalCount)
	if err != nil {
		log.Error(ctx, "error counting users", zap.Error(err))
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, created_at, updated_at
         FROM users
         ORDER BY created_at, id
         LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		log.Error(ctx, "error listing users", zap.Error(err))
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		var user entities.User
		err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			log.Error(ctx, "error scanning user", zap.Error(err))
			return nil, 0, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, totalCount, nil
}

// Delete удаляет пользователя. Уже отсутствующая запись не считается ошибкой.
func (r *UserRepository) Delete(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Delete"))

	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID)
	if err != nil {
		log.Error(ctx, "error deleting user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "user already deleted", zap.String("id", user.ID))
	}

	return nil
}
