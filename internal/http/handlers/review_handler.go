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

type ReviewHandler struct {
	Reviews *services.ReviewService
	Timeout time.Duration
}

// Submit accepts a review from a logged-in artisan or a guest. The author is
// taken from the session only.
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "review.submit", domain.ErrNotFound)
	}
	var in services.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "review.submit", fmt.Errorf("%w: malformed body", domain.ErrInvalidInput))
	}
	in.ListingID = id
	in.AuthorID = artisanID(c)

	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	rv, err := h.Reviews.Submit(ctx, in)
	if err != nil {
		return fail(c, "review.submit", err)
	}
	log.Audit(c, "review.submit", map[string]any{"listing_id": id, "review_id": rv.ID, "guest": rv.IsGuest()})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        rv.ID,
		"rating":    rv.Rating,
		"comment":   rv.Comment,
		"createdAt": rv.CreatedAt,
	})
}
