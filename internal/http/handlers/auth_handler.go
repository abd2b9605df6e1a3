package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/log"
	"handcraftedhaven/internal/services"
	"handcraftedhaven/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var cr credentials
	if err := c.BodyParser(&cr); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_body"})
		return fail(c, "auth.login", domain.ErrBadCreds)
	}
	email, ok := validate.Email(cr.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": cr.Email, "reason": "bad_format"})
		return fail(c, "auth.login", domain.ErrBadCreds)
	}
	if !validate.Password(cr.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return fail(c, "auth.login", domain.ErrBadCreds)
	}

	a, err := h.Auth.Login(c.UserContext(), sid, email, cr.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, "auth.login", err)
	}

	c.Locals("artisan", a)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"artisan": a})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
		log.Error(c, "auth.logout.error", err, nil)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.SendStatus(fiber.StatusNoContent)
}
