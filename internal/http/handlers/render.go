package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"handcraftedhaven/internal/domain"
	applog "handcraftedhaven/internal/log"
)

// GenericError is the only message a client sees for a failure we did not
// anticipate.
const GenericError = "Something went wrong. Please try again."

// callCtx bounds one core call by the configured query timeout.
func callCtx(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), d)
}

// StatusFor maps a domain error onto an HTTP status and a safe message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "Please check your input and try again."
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "This item is no longer available"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "Access denied"
	case errors.Is(err, domain.ErrBadCreds):
		return fiber.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return fiber.StatusServiceUnavailable, "The catalog is temporarily unavailable. Please retry."
	default:
		return fiber.StatusInternalServerError, GenericError
	}
}

// fail logs err under action and writes the mapped JSON error.
func fail(c *fiber.Ctx, action string, err error) error {
	status, msg := StatusFor(err)
	c.Status(status)
	switch status {
	case fiber.StatusBadRequest:
		applog.Security(c, "validation.fail", map[string]any{"op": action, "reason": err.Error()})
	case fiber.StatusForbidden, fiber.StatusUnauthorized:
		applog.Security(c, "access.denied", map[string]any{"op": action})
	case fiber.StatusNotFound:
		applog.Info(c, action+".not_found", nil)
	default:
		applog.Error(c, action+".error", err, nil)
	}
	return c.JSON(fiber.Map{"error": msg})
}

// ErrorHandler is the app-wide fallback. It never echoes err to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := GenericError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		status = fe.Code
		msg = fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
