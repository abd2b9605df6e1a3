package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/log"
	"handcraftedhaven/internal/services"
	"handcraftedhaven/internal/validate"
)

type ProductHandler struct {
	Assembler *services.DetailService
	Timeout   time.Duration
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return fail(c, "listing.detail", domain.ErrNotFound)
	}
	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	view, err := h.Assembler.Assemble(ctx, id)
	if err != nil {
		return fail(c, "listing.detail", err)
	}
	return c.JSON(view)
}
