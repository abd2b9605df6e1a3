package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"handcraftedhaven/internal/services"
)

// OverviewHandler serves the read-only dashboard views.
type OverviewHandler struct {
	Overview *services.OverviewService
	Timeout  time.Duration
}

func (h *OverviewHandler) Artisans(c *fiber.Ctx) error {
	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	out, err := h.Overview.Directory(ctx)
	if err != nil {
		return fail(c, "artisan.directory", err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *OverviewHandler) Summary(c *fiber.Ctx) error {
	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	ov, err := h.Overview.Overview(ctx)
	if err != nil {
		return fail(c, "dashboard.overview", err)
	}
	return c.JSON(ov)
}
