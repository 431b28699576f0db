package middleware

import (
	"errors"

	"message-search-backend/messages/services"
	"message-search-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler turns handler errors into JSON bodies carrying a "detail" field.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			validationErr *pagination.ValidationError
			rangeErr      *services.OutOfRangeError
			fiberErr      *fiber.Error
		)

		switch {
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"detail": validationErr.Fields,
			})
		case errors.As(err, &rangeErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "Page number out of range",
			})
		case errors.As(err, &fiberErr):
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"detail": fiberErr.Message,
			})
		default:
			logger.Error("Unhandled request error",
				zap.String("request_id", RequestID(c)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"detail": "Internal server error",
			})
		}
	}
}
