// Package users содержит HTTP-обработчики для управления пользователями.
package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"userhub/internal/users/adapters/http/middleware"
	"userhub/internal/users/app/dto"
	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/api"
	"userhub/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateUser = "handling create user request"
	LogHandlerListUsers  = "handling list users request"
	LogHandlerGetUser    = "handling get user request"
	LogHandlerUpdateUser = "handling update user request"
	LogHandlerDeleteUser = "handling delete user request"

	ErrMsgInvalidUserID      = "invalid user id"
	ErrMsgInvalidPagination  = "invalid pagination parameters"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgInternal           = "internal server error"
)

// Handler обработчик HTTP-запросов для работы с пользователями.
type Handler struct {
	userService api.UserUseCase
}

// NewHandler создает новый экземпляр обработчика пользователей.
func NewHandler(userService api.UserUseCase) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CreateUser обрабатывает запрос на создание нового пользователя.
func (h *Handler) CreateUser(ctx fiber.Ctx) error {
	userCtx := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.CreateUser"))
	log.Debug(userCtx, LogHandlerCreateUser)

	var req dto.CreateUserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody, "")
	}

	user, err := h.userService.Create(userCtx, &api.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		log.Error(userCtx, "failed to create user", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(toUserResponse(user)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListUsers обрабатывает запрос на получение страницы пользователей.
func (h *Handler) ListUsers(ctx fiber.Ctx) error {
	userCtx := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListUsers"))
	log.Debug(userCtx, LogHandlerListUsers)

	pageStr := ctx.Query("page", "1")
	pageSizeStr := ctx.Query("page_size", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		log.Debug(userCtx, ErrMsgInvalidPagination, zap.String("page", pageStr))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidPagination, "page")
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 {
		log.Debug(userCtx, ErrMsgInvalidPagination, zap.String("page_size", pageSizeStr))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidPagination, "page_size")
	}

	result, err := h.userService.FindAll(userCtx, page, pageSize)
	if err != nil {
		log.Error(userCtx, "failed to list users", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(toListUsersResponse(result)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetUser обрабатывает запрос на получение пользователя по ID.
func (h *Handler) GetUser(ctx fiber.Ctx) error {
	userCtx := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetUser"))
	log.Debug(userCtx, LogHandlerGetUser)

	userID := ctx.Params("user_id")
	if userID == "" {
		log.Debug(userCtx, ErrMsgInvalidUserID)
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidUserID, "")
	}

	user, err := h.userService.FindOne(userCtx, userID)
	if err != nil {
		log.Debug(userCtx, "failed to get user", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(toUserResponse(user)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateUser обрабатывает запрос на частичное обновление пользователя.
func (h *Handler) UpdateUser(ctx fiber.Ctx) error {
	userCtx := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UpdateUser"))
	log.Debug(userCtx, LogHandlerUpdateUser)

	userID := ctx.Params("user_id")
	if userID == "" {
		log.Debug(userCtx, ErrMsgInvalidUserID)
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidUserID, "")
	}

	var req dto.UpdateUserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody, "")
	}

	user, err := h.userService.Update(userCtx, userID, &api.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		log.Debug(userCtx, "failed to update user", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(toUserResponse(user)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteUser обрабатывает запрос на удаление пользователя.
func (h *Handler) DeleteUser(ctx fiber.Ctx) error {
	userCtx := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.DeleteUser"))
	log.Debug(userCtx, LogHandlerDeleteUser)

	userID := ctx.Params("user_id")
	if userID == "" {
		log.Debug(userCtx, ErrMsgInvalidUserID)
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidUserID, "")
	}

	if err := h.userService.Remove(userCtx, userID); err != nil {
		log.Debug(userCtx, "failed to delete user", zap.Error(err))
		return handleError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// Извлекает контекст запроса с request_id из Locals.
func requestContext(ctx fiber.Ctx) context.Context {
	if userCtx, ok := ctx.Locals(middleware.LocalsRequestContext).(context.Context); ok {
		return userCtx
	}
	return ctx.Context() // Запасной вариант
}

// Переводит ошибки доменного уровня в HTTP статусы.
func handleError(ctx fiber.Ctx, err error) error {
	var validationErr *entities.ValidationError
	var notFoundErr *entities.NotFoundError
	var conflictErr *entities.ConflictError

	switch {
	case errors.As(err, &validationErr):
		return sendErrorResponse(ctx, fiber.StatusBadRequest, validationErr.Error(), validationErr.Field)
	case errors.As(err, &notFoundErr):
		return sendErrorResponse(ctx, fiber.StatusNotFound, notFoundErr.Error(), "")
	case errors.As(err, &conflictErr):
		return sendErrorResponse(ctx, fiber.StatusConflict, conflictErr.Error(), conflictErr.Field)
	default:
		return sendErrorResponse(ctx, fiber.StatusInternalServerError, ErrMsgInternal, "")
	}
}

// Вспомогательная функция для отправки ответа с ошибкой.
func sendErrorResponse(ctx fiber.Ctx, statusCode int, message, field string) error {
	if err := ctx.Status(statusCode).JSON(dto.ErrorResponse{
		Error: message,
		Field: field,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Преобразует доменную сущность в DTO ответа.
func toUserResponse(user *entities.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Преобразует страницу пользователей в DTO ответа со списком.
func toListUsersResponse(page *api.UserPage) *dto.ListUsersResponse {
	respUsers := make([]*dto.UserResponse, 0, len(page.Users))
	for _, user := range page.Users {
		respUsers = append(respUsers, toUserResponse(user))
	}

	return &dto.ListUsersResponse{
		Users:      respUsers,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
