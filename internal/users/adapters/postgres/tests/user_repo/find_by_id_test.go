package userrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/internal/users/adapters/postgres"
	"userhub/pkg/logger"
)

func TestUserRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	ctx = logger.NewContext(ctx, testLogger)

	userID := "11111111-2222-3333-4444-555555555555"
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Успешный поиск пользователя", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, name, email, created_at, updated_at FROM users WHERE id = .+").
			WithArgs(userID).
			WillReturnRows(
				pgxmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}).
					AddRow(userID, "John Doe", "john@example.com", now, now),
			)

		repo := postgres.NewUserRepository(mock)
		user, err := repo.FindByID(ctx, userID)

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "John Doe", user.Name)
		assert.Equal(t, "john@example.com", user.Email)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пользователь не найден - возвращается nil без ошибки", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, name, email, created_at, updated_at FROM users WHERE id = .+").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}))

		repo := postgres.NewUserRepository(mock)
		user, err := repo.FindByID(ctx, userID)

		require.NoError(t, err)
		assert.Nil(t, user)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка БД", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, name, email, created_at, updated_at FROM users WHERE id = .+").
			WithArgs(userID).
			WillReturnError(errors.New("database connection error"))

		repo := postgres.NewUserRepository(mock)
		user, err := repo.FindByID(ctx, userID)

		require.Error(t, err)
		assert.Nil(t, user)
		assert.Contains(t, err.Error(), "error querying user by id")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
