package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"handcraftedhaven/internal/query"
	"handcraftedhaven/internal/services"
	"handcraftedhaven/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
	Timeout time.Duration
}

// Browse serves GET /api/v1/listings. Parameters are coerced rather than
// rejected: a bad page becomes 1 and unknown categories are ignored.
func (h *SearchHandler) Browse(c *fiber.Ctx) error {
	q := validate.Q(c.Query("query"))
	page := validate.Page(c.Query("page"))

	var raw []string
	for _, v := range c.Context().QueryArgs().PeekMulti("category") {
		raw = append(raw, string(v))
	}
	raw = append(raw, c.Query("categories"))
	cats := validate.Categories(raw...)

	ctx, cancel := callCtx(c, h.Timeout)
	defer cancel()
	res, err := h.Catalog.Browse(ctx, query.Build(q, cats), page, 0)
	if err != nil {
		return fail(c, "catalog.browse", err)
	}
	return c.JSON(res)
}
