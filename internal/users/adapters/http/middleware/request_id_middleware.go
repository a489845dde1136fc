// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"userhub/pkg/logger"
)

// Константы для передачи идентификатора запроса.
const (
	HeaderRequestID = "X-Request-ID"

	// LocalsRequestContext - ключ Locals, под которым хранится контекст
	// запроса с идентификатором запроса.
	LocalsRequestContext = "requestContext"
)

// NewRequestIDMiddleware прокладывает идентификатор запроса в контекст запроса.
// Если клиент не передал свой в заголовке, генерируется новый.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		requestCtx := logger.NewRequestIDContext(ctx.Context(), requestID)

		ctx.Locals(LocalsRequestContext, requestCtx)

		id, _ := logger.GetRequestID(requestCtx)
		ctx.Set(HeaderRequestID, id)

		return ctx.Next()
	}
}
