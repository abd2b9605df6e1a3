package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/log"
	"handcraftedhaven/internal/services"
	"handcraftedhaven/internal/validate"
)

// ListingHandler serves the artisan-only listing management endpoints.
// Every route is mounted behind RequireArtisan.
type ListingHandler struct {
	Listings *services.ListingService
	Timeout  time.Duration
}

func currentArtisan(c *fiber.Ctx) *domain.Artisan {
	a, _ := c.Locals("artisan").(*domain.Artisan)
	return a
}

func artisanID(c *fiber.Ctx) string {
	if a := currentArtisan(c); a != nil {
		return a.ID
	}
	return ""
}

func parseListing(c *fiber.Ctx) (services.ListingInput, error) {
	var in services.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return in, fmt.Errorf("%w: malformed body", domain.ErrInvalidInput)
	}
	return in, nil
}

func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	out, err := h.Listings.ListMine(ctx, artisanID(c))
	if err != nil {
		return fail(c, "listing.mine", err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	in, err := parseListing(c)
	if err != nil {
		return fail(c, "listing.create", err)
	}
	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	l, err := h.Listings.Create(ctx, artisanID(c), in)
	if err != nil {
		return fail(c, "listing.create", err)
	}
	log.Audit(c, "listing.create", map[string]any{"listing_id": l.ID})
	return c.Status(fiber.StatusCreated).JSON(l)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "listing.update", domain.ErrNotFound)
	}
	in, err := parseListing(c)
	if err != nil {
		return fail(c, "listing.update", err)
	}
	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	l, err := h.Listings.Update(ctx, artisanID(c), id, in)
	if err != nil {
		return fail(c, "listing.update", err)
	}
	log.Audit(c, "listing.update", map[string]any{"listing_id": l.ID})
	return c.JSON(l)
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "listing.delete", domain.ErrNotFound)
	}
	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	if err := h.Listings.Delete(ctx, artisanID(c), id); err != nil {
		return fail(c, "listing.delete", err)
	}
	log.Audit(c, "listing.delete", map[string]any{"listing_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
