package serverutils

import (
	"errors"

	"ai-tutor-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an application error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case apperror.IsValidation(err):
		return fiber.StatusBadRequest
	case apperror.IsNotFound(err):
		return fiber.StatusNotFound
	case apperror.IsTransient(err):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, apperror.ErrSummaryInFlight):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors returned by handlers into the standard envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError && apperror.IsDataIntegrity(err) {
			message = "failed to store data: " + message
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
