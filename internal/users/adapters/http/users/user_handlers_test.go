package users_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpServer "userhub/internal/users/adapters/http"
	"userhub/internal/users/app/dto"
	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/api"
)

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) Create(ctx context.Context, input *api.CreateUserInput) (*entities.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserUseCase) FindAll(ctx context.Context, page, pageSize int) (*api.UserPage, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.UserPage), args.Error(1)
}

func (m *mockUserUseCase) FindOne(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserUseCase) Update(ctx context.Context, id string, input *api.UpdateUserInput) (*entities.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserUseCase) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestApp(service api.UserUseCase) *fiber.App {
	app := fiber.New()
	httpServer.SetupRouter(app, service)
	return app
}

func sampleUser() *entities.User {
	created := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return &entities.User{
		ID:        "test-user-id",
		Name:      "John Doe",
		Email:     "john@example.com",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeUserResponse(t *testing.T, resp *http.Response) *dto.UserResponse {
	t.Helper()

	var result dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return &result
}

func decodeErrorResponse(t *testing.T, resp *http.Response) *dto.ErrorResponse {
	t.Helper()

	var result dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return &result
}

func TestCreateUser(t *testing.T) {
	t.Run("Success case - returns 201 with created user", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Create", mock.Anything, &api.CreateUserInput{
			Name:  "John Doe",
			Email: "john@example.com",
		}).Return(sampleUser(), nil).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodPost, "/api/v1/users/", dto.CreateUserRequest{
			Name:  "John Doe",
			Email: "john@example.com",
		})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		result := decodeUserResponse(t, resp)
		assert.Equal(t, "test-user-id", result.ID)
		assert.Equal(t, "John Doe", result.Name)
		service.AssertExpectations(t)
	})

	t.Run("Error case - validation failure returns 400", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Create", mock.Anything, mock.Anything).
			Return(nil, entities.NewValidationError("email", "must be a valid email address")).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodPost, "/api/v1/users/", dto.CreateUserRequest{
			Name:  "John Doe",
			Email: "not-an-email",
		})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		result := decodeErrorResponse(t, resp)
		assert.Equal(t, "email", result.Field)
		service.AssertExpectations(t)
	})

	t.Run("Error case - duplicate email returns 409", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Create", mock.Anything, mock.Anything).
			Return(nil, entities.NewConflictError("email")).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodPost, "/api/v1/users/", dto.CreateUserRequest{
			Name:  "John Doe",
			Email: "taken@example.com",
		})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		result := decodeErrorResponse(t, resp)
		assert.Contains(t, result.Error, "email already in use")
		service.AssertExpectations(t)
	})

	t.Run("Error case - internal error returns 500", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Create", mock.Anything, mock.Anything).
			Return(nil, errors.New("database connection error")).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodPost, "/api/v1/users/", dto.CreateUserRequest{
			Name:  "John Doe",
			Email: "john@example.com",
		})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		result := decodeErrorResponse(t, resp)
		assert.Equal(t, "internal server error", result.Error)
		service.AssertExpectations(t)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("Success case - returns page with metadata", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("FindAll", mock.Anything, 2, 5).Return(&api.UserPage{
			Users:      []*entities.User{sampleUser()},
			Total:      6,
			Page:       2,
			PageSize:   5,
			TotalPages: 2,
		}, nil).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodGet, "/api/v1/users/?page=2&page_size=5", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result dto.ListUsersResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 6, result.Total)
		assert.Equal(t, 2, result.Page)
		assert.Equal(t, 5, result.PageSize)
		assert.Equal(t, 2, result.TotalPages)
		require.Len(t, result.Users, 1)
		service.AssertExpectations(t)
	})

	t.Run("Success case - defaults applied without query parameters", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("FindAll", mock.Anything, 1, 10).Return(&api.UserPage{
			Users:      []*entities.User{},
			Total:      0,
			Page:       1,
			PageSize:   10,
			TotalPages: 0,
		}, nil).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodGet, "/api/v1/users/", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		service.AssertExpectations(t)
	})

	t.Run("Error case - non-numeric page returns 400", func(t *testing.T) {
		service := new(mockUserUseCase)

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodGet, "/api/v1/users/?page=abc", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		service.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success case - returns user", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("FindOne", mock.Anything, "test-user-id").Return(sampleUser(), nil).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodGet, "/api/v1/users/test-user-id", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		result := decodeUserResponse(t, resp)
		assert.Equal(t, "test-user-id", result.ID)
		service.AssertExpectations(t)
	})

	t.Run("Error case - missing user returns 404", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("FindOne", mock.Anything, "missing-id").
			Return(nil, entities.NewNotFoundError("missing-id")).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodGet, "/api/v1/users/missing-id", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		result := decodeErrorResponse(t, resp)
		assert.Equal(t, "User #missing-id not found", result.Error)
		service.AssertExpectations(t)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success case - partial update returns updated user", func(t *testing.T) {
		updated := sampleUser()
		updated.Name = "Jane Doe"

		service := new(mockUserUseCase)
		service.On("Update", mock.Anything, "test-user-id", mock.MatchedBy(func(input *api.UpdateUserInput) bool {
			return input.Name != nil && *input.Name == "Jane Doe" && input.Email == nil
		})).Return(updated, nil).Once()

		app := setupTestApp(service)
		name := "Jane Doe"
		req := jsonRequest(t, fiber.MethodPatch, "/api/v1/users/test-user-id", dto.UpdateUserRequest{Name: &name})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		result := decodeUserResponse(t, resp)
		assert.Equal(t, "Jane Doe", result.Name)
		service.AssertExpectations(t)
	})

	t.Run("Error case - missing user returns 404", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Update", mock.Anything, "missing-id", mock.Anything).
			Return(nil, entities.NewNotFoundError("missing-id")).Once()

		app := setupTestApp(service)
		name := "Jane Doe"
		req := jsonRequest(t, fiber.MethodPatch, "/api/v1/users/missing-id", dto.UpdateUserRequest{Name: &name})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		service.AssertExpectations(t)
	})

	t.Run("Error case - duplicate email returns 409", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Update", mock.Anything, "test-user-id", mock.Anything).
			Return(nil, entities.NewConflictError("email")).Once()

		app := setupTestApp(service)
		email := "taken@example.com"
		req := jsonRequest(t, fiber.MethodPatch, "/api/v1/users/test-user-id", dto.UpdateUserRequest{Email: &email})

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		service.AssertExpectations(t)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success case - returns 204 without body", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Remove", mock.Anything, "test-user-id").Return(nil).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodDelete, "/api/v1/users/test-user-id", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		service.AssertExpectations(t)
	})

	t.Run("Error case - missing user returns 404", func(t *testing.T) {
		service := new(mockUserUseCase)
		service.On("Remove", mock.Anything, "missing-id").
			Return(entities.NewNotFoundError("missing-id")).Once()

		app := setupTestApp(service)
		req := jsonRequest(t, fiber.MethodDelete, "/api/v1/users/missing-id", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		service.AssertExpectations(t)
	})
}

func TestUnknownRouteReturns404(t *testing.T) {
	service := new(mockUserUseCase)
	app := setupTestApp(service)

	req := jsonRequest(t, fiber.MethodGet, "/api/v1/unknown", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
