// Package app реализует бизнес-логику сервиса пользователей.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/api"
	"userhub/internal/users/ports/cache"
	"userhub/internal/users/ports/repositories"
	"userhub/pkg/logger"
)

// Значения пагинации по умолчанию.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

const (
	methodCreate  = "Create"
	methodFindAll = "FindAll"
	methodFindOne = "FindOne"
	methodUpdate  = "Update"
	methodRemove  = "Remove"

	fieldName  = "name"
	fieldEmail = "email"

	reasonRequired      = "must not be empty"
	reasonTooLong       = "must be at most 100 characters"
	reasonInvalidFormat = "must be a valid email address"

	msgCreatingUser     = "creating new user"
	msgUserCreated      = "user created successfully"
	msgInvalidInput     = "input validation failed"
	msgEmailTaken       = "email is already in use by another user"
	msgListingUsers     = "listing users"
	msgRequestingUser   = "requesting user"
	msgUserNotFound     = "user not found"
	msgUpdatingUser     = "updating user"
	msgUserUpdated      = "user updated successfully"
	msgRemovingUser     = "removing user"
	msgUserRemoved      = "user removed successfully"
	msgServedFromCache  = "user served from cache"
	msgErrCacheRead     = "failed to read user from cache"
	msgErrCacheWrite    = "failed to write user to cache"
	msgErrCacheEvict    = "failed to evict user from cache"
	msgErrCacheDecode   = "failed to decode cached user"
	msgErrStoringUser   = "failed to store user"
	msgErrListingUsers  = "failed to list users"
	msgErrFindingUser   = "failed to find user by ID"
	msgErrDeletingUser  = "failed to delete user"

	errCtxValidatingName  = "validating name"
	errCtxValidatingEmail = "validating email"
	errCtxStoringUser     = "storing user"
	errCtxListingUsers    = "listing users"
	errCtxFindingUser     = "finding user"
	errCtxDeletingUser    = "deleting user"

	cacheKeyPrefix = "users:"
)

// Формат email совпадает с проверкой на стороне клиентов API.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UserUseCaseImpl реализует интерфейс api.UserUseCase.
type UserUseCaseImpl struct {
	userRepo  repositories.UserRepository
	userCache cache.Cache
}

// NewUserUseCase создает новый экземпляр сервиса пользователей.
// userCache может быть nil - тогда все чтения идут напрямую в хранилище.
func NewUserUseCase(userRepo repositories.UserRepository, userCache cache.Cache) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo:  userRepo,
		userCache: userCache,
	}
}

// Create проверяет входные данные, генерирует ID и сохраняет нового пользователя.
func (u *UserUseCaseImpl) Create(ctx context.Context, input *api.CreateUserInput) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreate))
	log.Debug(ctx, msgCreatingUser)

	if err := validateName(input.Name); err != nil {
		log.Debug(ctx, msgInvalidInput, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingName, err)
	}
	if err := validateEmail(input.Email); err != nil {
		log.Debug(ctx, msgInvalidInput, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}

	user := entities.NewUser(uuid.NewString(), input.Name, input.Email)

	if err := u.userRepo.Store(ctx, user); err != nil {
		if errors.Is(err, entities.ErrEmailAlreadyInUse) {
			log.Debug(ctx, msgEmailTaken, zap.String("email", input.Email))
			return nil, entities.NewConflictError(fieldEmail)
		}
		log.Error(ctx, msgErrStoringUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringUser, err)
	}

	u.cacheUser(ctx, user)

	log.Info(ctx, msgUserCreated, zap.String("userID", user.ID))
	return user, nil
}

// FindAll возвращает страницу пользователей с метаданными пагинации.
// Страница за пределами диапазона возвращает пустой срез без ошибки.
func (u *UserUseCaseImpl) FindAll(ctx context.Context, page, pageSize int) (*api.UserPage, error) {
	log := logger.Log(ctx).With(zap.String("method", methodFindAll))

	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	offset := (page - 1) * pageSize
	log.Debug(ctx, msgListingUsers, zap.Int("page", page), zap.Int("pageSize", pageSize))

	users, total, err := u.userRepo.FindPage(ctx, offset, pageSize)
	if err != nil {
		log.Error(ctx, msgErrListingUsers, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &api.UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// FindOne возвращает пользователя по ID или NotFoundError, если его нет.
func (u *UserUseCaseImpl) FindOne(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodFindOne), zap.String("userID", id))
	log.Debug(ctx, msgRequestingUser)

	if user := u.cachedUser(ctx, id); user != nil {
		log.Debug(ctx, msgServedFromCache)
		return user, nil
	}

	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}
	if user == nil {
		log.Debug(ctx, msgUserNotFound)
		return nil, entities.NewNotFoundError(id)
	}

	u.cacheUser(ctx, user)
	return user, nil
}

// Update проверяет присутствующие поля, сливает их с текущей сущностью
// и сохраняет результат. Отсутствующие поля остаются без изменений.
func (u *UserUseCaseImpl) Update(ctx context.Context, id string, input *api.UpdateUserInput) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdate), zap.String("userID", id))
	log.Debug(ctx, msgUpdatingUser)

	current, err := u.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			log.Debug(ctx, msgInvalidInput, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxValidatingName, err)
		}
	}
	if input.Email != nil {
		if err := validateEmail(*input.Email); err != nil {
			log.Debug(ctx, msgInvalidInput, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
		}
	}

	merged := mergeUser(current, input)
	merged.UpdatedAt = time.Now().UTC()

	if err := u.userRepo.Store(ctx, merged); err != nil {
		if errors.Is(err, entities.ErrEmailAlreadyInUse) {
			log.Debug(ctx, msgEmailTaken)
			return nil, entities.NewConflictError(fieldEmail)
		}
		log.Error(ctx, msgErrStoringUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringUser, err)
	}

	u.cacheUser(ctx, merged)

	log.Info(ctx, msgUserUpdated)
	return merged, nil
}

// Remove удаляет пользователя по ID. Удаленный ID неотличим от никогда
// не существовавшего.
func (u *UserUseCaseImpl) Remove(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", methodRemove), zap.String("userID", id))
	log.Debug(ctx, msgRemovingUser)

	user, err := u.FindOne(ctx, id)
	if err != nil {
		return err
	}

	if err := u.userRepo.Delete(ctx, user); err != nil {
		log.Error(ctx, msgErrDeletingUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	u.uncacheUser(ctx, id)

	log.Info(ctx, msgUserRemoved)
	return nil
}

// Создает копию current с перезаписанными присутствующими полями input.
// Чистая функция: ни один из аргументов не изменяется.
func mergeUser(current *entities.User, input *api.UpdateUserInput) *entities.User {
	merged := *current
	if input.Name != nil {
		merged.Name = *input.Name
	}
	if input.Email != nil {
		merged.Email = *input.Email
	}
	return &merged
}

// Валидация имени пользователя.
func validateName(name string) error {
	if name == "" {
		return entities.NewValidationError(fieldName, reasonRequired)
	}
	if utf8.RuneCountInString(name) > entities.MaxNameLength {
		return entities.NewValidationError(fieldName, reasonTooLong)
	}
	return nil
}

// Валидация email.
func validateEmail(email string) error {
	if email == "" {
		return entities.NewValidationError(fieldEmail, reasonRequired)
	}
	if utf8.RuneCountInString(email) > entities.MaxEmailLength {
		return entities.NewValidationError(fieldEmail, reasonTooLong)
	}
	if !emailRegex.MatchString(email) {
		return entities.NewValidationError(fieldEmail, reasonInvalidFormat)
	}
	return nil
}

// Читает пользователя из кэша; любая ошибка кэша только логируется.
func (u *UserUseCaseImpl) cachedUser(ctx context.Context, id string) *entities.User {
	if u.userCache == nil {
		return nil
	}

	log := logger.Log(ctx)

	value, err := u.userCache.Get(ctx, cacheKeyPrefix+id)
	if err != nil {
		log.Warn(ctx, msgErrCacheRead, zap.Error(err))
		return nil
	}
	if value == "" {
		return nil
	}

	var user entities.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		log.Warn(ctx, msgErrCacheDecode, zap.Error(err))
		return nil
	}
	return &user
}

// Кладет пользователя в кэш; любая ошибка кэша только логируется.
func (u *UserUseCaseImpl) cacheUser(ctx context.Context, user *entities.User) {
	if u.userCache == nil {
		return
	}

	log := logger.Log(ctx)

	value, err := json.Marshal(user)
	if err != nil {
		log.Warn(ctx, msgErrCacheWrite, zap.Error(err))
		return
	}
	if err := u.userCache.Set(ctx, cacheKeyPrefix+user.ID, string(value), 0); err != nil {
		log.Warn(ctx, msgErrCacheWrite, zap.Error(err))
	}
}

// Удаляет пользователя из кэша; любая ошибка кэша только логируется.
func (u *UserUseCaseImpl) uncacheUser(ctx context.Context, id string) {
	if u.userCache == nil {
		return
	}

	if err := u.userCache.Delete(ctx, cacheKeyPrefix+id); err != nil {
		logger.Log(ctx).Warn(ctx, msgErrCacheEvict, zap.Error(err))
	}
}
