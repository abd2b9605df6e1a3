package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "handcraftedhaven/internal/log"
)

func tooMany(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
	}
}

// Mount registers every application route on app. Global middleware
// (request ids, session attach, csrf) is the caller's concern.
func Mount(app *fiber.App, d *Deps) {
	api := app.Group("/api/v1")

	api.Get("/listings", limiter.New(limiter.Config{
		Max:          60,
		Expiration:   time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|browse" },
		LimitReached: tooMany("rate.browse.hit"),
	}), d.SearchHandler.Browse)
	api.Get("/listings/:id", d.ProductHandler.Detail)
	api.Post("/listings/:id/reviews", limiter.New(limiter.Config{
		Max:          10,
		Expiration:   time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|review" },
		LimitReached: tooMany("rate.review.hit"),
	}), d.ReviewHandler.Submit)

	mine := RequireArtisan(d.Auth)
	api.Get("/me/listings", mine, d.ListingHandler.Mine)
	api.Post("/listings", mine, d.ListingHandler.Create)
	api.Put("/listings/:id", mine, d.ListingHandler.Update)
	api.Delete("/listings/:id", mine, d.ListingHandler.Delete)
	api.Get("/artisans", mine, d.OverviewHandler.Artisans)
	api.Get("/me/overview", mine, d.OverviewHandler.Summary)

	app.Post("/login", limiter.New(limiter.Config{
		Max:          5,
		Expiration:   10 * time.Minute,
		LimitReached: tooMany("rate.login.hit"),
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)
}
