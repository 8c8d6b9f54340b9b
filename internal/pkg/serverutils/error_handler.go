package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping a handler into the shared
// JSON envelope so clients never see a bare 500 page.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
