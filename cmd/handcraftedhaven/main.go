package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"handcraftedhaven/internal/config"
	"handcraftedhaven/internal/http/handlers"
	applog "handcraftedhaven/internal/log"
	"handcraftedhaven/internal/metrics"
	"handcraftedhaven/internal/repos"
	"handcraftedhaven/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Error(nil, "log.file.open.fail", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			applog.SetOutput(out)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		applog.Logger().Fatal(err)
	}
	defer db.Close()
	if err := repos.SeedDemo(context.Background(), db); err != nil {
		applog.Logger().Fatal(err)
	}

	authSvc := &services.AuthService{Artisans: repos.NewArtisanRepo(db)}

	app := fiber.New(fiber.Config{
		AppName:      "handcraftedhaven",
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: out}))
	app.Use(helmet.New())
	app.Use(metrics.Middleware())
	app.Use(handlers.AttachArtisan(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || strings.HasPrefix(p, "/metrics")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)
	handlers.Mount(app, deps)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", metrics.Handler())
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page not found"})
	})

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port})
	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.Logger().Fatal(err)
	}
}
