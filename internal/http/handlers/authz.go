package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "handcraftedhaven/internal/log"
	"handcraftedhaven/internal/services"
)

// AttachArtisan puts the session's artisan, if any, into Locals("artisan").
// Anonymous requests pass through untouched.
func AttachArtisan(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if a, err := auth.CurrentArtisan(c.UserContext(), sid); err == nil && a != nil {
				c.Locals("artisan", a)
			}
		}
		return c.Next()
	}
}

// RequireArtisan enforces that an artisan is logged in.
func RequireArtisan(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentArtisan(c) != nil {
			return c.Next()
		}
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in"})
		}
		a, err := auth.CurrentArtisan(c.UserContext(), sid)
		if err != nil || a == nil {
			applog.Security(c, "access.denied.artisan", map[string]any{"sid": sid})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in"})
		}
		c.Locals("artisan", a)
		return c.Next()
	}
}
