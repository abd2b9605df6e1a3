package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"handcraftedhaven/internal/config"
	"handcraftedhaven/internal/http/handlers"
	"handcraftedhaven/internal/repos"
	"handcraftedhaven/internal/services"
)

const (
	marenEmail = "maren@handcraftedhaven.test"
	ivoEmail   = "ivo.smith@handcraftedhaven.test"
	demoPass   = "Passw0rd!"
)

// newTestApp wires the real routes over a seeded in-memory store.
func newTestApp(t *testing.T, withCSRF bool) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Default()
	cfg.DBDSN = ":memory:"
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.SeedDemo(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	authSvc := &services.AuthService{Artisans: repos.NewArtisanRepo(db)}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.AttachArtisan(authSvc))
	if withCSRF {
		app.Use(csrf.New(csrf.Config{KeyLookup: "header:X-Csrf-Token", CookieName: "csrf_", CookieSameSite: "Lax"}))
	}
	handlers.Mount(app, handlers.NewDeps(db, cfg, authSvc))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	return app, db
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func do(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func decode(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("decode %s: %v", string(b), err)
	}
}

// login returns the session cookie for a seeded artisan.
func login(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()
	resp, body := do(t, app, "POST", "/login", map[string]string{"email": email, "password": demoPass})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, resp.StatusCode, body)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("sid cookie missing")
	}
	return &http.Cookie{Name: "sid", Value: sid}
}
