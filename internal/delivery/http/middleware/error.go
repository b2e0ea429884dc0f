package middleware

import (
	"errors"

	"campus-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func BadRequest(message string, cause error) *AppError {
	return NewAppError(fiber.StatusBadRequest, message, nil, cause)
}

func Unauthenticated(message string, cause error) *AppError {
	if message == "" {
		message = "Unauthenticated"
	}
	return NewAppError(fiber.StatusUnauthorized, message, nil, cause)
}

func Forbidden(message string, cause error) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(fiber.StatusForbidden, message, nil, cause)
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(fiber.StatusNotFound, message, nil, cause)
}

func Conflict(message string, cause error) *AppError {
	return NewAppError(fiber.StatusConflict, message, nil, cause)
}

func TooManyRequests(message string) *AppError {
	if message == "" {
		message = "Too many requests"
	}
	return NewAppError(fiber.StatusTooManyRequests, message, nil, nil)
}

func Internal(cause error) *AppError {
	return NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, cause)
}

type ErrorMiddleware struct {
	logger *zerolog.Logger
}

func NewErrorMiddleware(logger *zerolog.Logger) *ErrorMiddleware {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error().Interface("panic", r).Str("path", c.Path()).Msg("panic recovered")
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			m.logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		}
		return response.Error(c, status, msg, data)
	}
}

// Handler adapts the middleware for fiber.Config.ErrorHandler so errors
// raised outside the middleware chain (routing 404/405) share the envelope.
func (m *ErrorMiddleware) Handler() fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status, msg, data := normalizeError(err)
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, any) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 || appErr.StatusCode >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(appErr.StatusCode)
		}
		return appErr.StatusCode, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
