package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"telecom-support-be/internal/apperrors"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
		Code:    code,
	}
}

var validate = validator.New()

func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// StatusForError maps domain sentinels onto HTTP statuses. Unknown
// errors are treated as internal.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateRoom):
		return fiber.StatusConflict
	case errors.Is(err, apperrors.ErrStaleSession):
		return fiber.StatusGone
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts uncaught errors into the standard
// error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		code := StatusForError(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
