// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"userhub/internal/users/adapters/http/middleware"
	"userhub/internal/users/adapters/http/users"
	"userhub/internal/users/ports/api"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, userService api.UserUseCase) {
	userHandler := users.NewHandler(userService)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Маршруты пользователей.
	userRoutes := apiV1.Group("/users")
	userRoutes.Post("/", userHandler.CreateUser)
	userRoutes.Get("/", userHandler.ListUsers)
	userRoutes.Get("/:user_id", userHandler.GetUser)
	userRoutes.Patch("/:user_id", userHandler.UpdateUser)
	userRoutes.Put("/:user_id", userHandler.UpdateUser)
	userRoutes.Delete("/:user_id", userHandler.DeleteUser)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
