// Package apperror classifies failures into the few kinds the HTTP layer
// cares about and turns them into fiber responses.
package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/eco-shop-backend/internal/logger"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
	KindUnavailable
)

// Error is a classified error. Message is safe to show to clients; Err is the
// underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

func Unavailable(msg string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: msg, Err: err}
}

// Storage wraps a failed data access. It is reported as a 500.
func Storage(err error) *Error {
	return &Error{Kind: KindInternal, Message: "storage error", Err: err}
}

// FieldErrors is implemented by request validation failures that carry a
// per-field message map.
type FieldErrors interface {
	FieldErrors() map[string]string
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		return KindValidation
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as a JSON error body. Internal and unavailable errors are
// logged with their cause and answered with a generic message.
func Respond(c *fiber.Ctx, err error) error {
	status := Status(err)

	var fe FieldErrors
	if errors.As(err, &fe) {
		return c.Status(status).JSON(fiber.Map{"message": "validation failed", "errors": fe.FieldErrors()})
	}

	message := "internal server error"
	var ae *Error
	if errors.As(err, &ae) {
		message = ae.Message
	}

	if status >= fiber.StatusInternalServerError {
		logger.Logger.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("request failed")
		if ae == nil || ae.Kind == KindInternal {
			message = "internal server error"
		}
	}

	return c.Status(status).JSON(fiber.Map{"message": message})
}
