package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/http/handlers"
	applog "handcraftedhaven/internal/log"
)

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusGone, "gone for good")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if !strings.Contains(s, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "db timeout") || strings.Contains(s, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/gone", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusGone {
		t.Fatalf("expected 410, got %d", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrBadCreds, http.StatusUnauthorized},
		{domain.ErrCatalogUnavailable, http.StatusServiceUnavailable},
		{errors.Join(domain.ErrNotFound, io.EOF), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got, _ := handlers.StatusFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app, _ := newTestApp(t, false)

	bad := map[string]string{"email": marenEmail, "password": "Wrongpass1!"}
	for i := 0; i < 4; i++ {
		resp, _ := do(t, app, "POST", "/login", bad)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401 for bad creds, got %d", i, resp.StatusCode)
		}
	}

	resp, body := do(t, app, "POST", "/login", map[string]string{"email": marenEmail, "password": demoPass})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on success, got %d", resp.StatusCode)
	}
	if strings.Contains(string(body), "$2") {
		t.Fatalf("password hash leaked: %s", body)
	}

	// five attempts used; the sixth is throttled
	resp, _ = do(t, app, "POST", "/login", bad)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	app, _ := newTestApp(t, false)
	sid := login(t, app, marenEmail)

	if resp, _ := do(t, app, "GET", "/api/v1/me/listings", nil, sid); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 while logged in, got %d", resp.StatusCode)
	}
	if resp, _ := do(t, app, "POST", "/logout", nil, sid); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 on logout, got %d", resp.StatusCode)
	}
	if resp, _ := do(t, app, "GET", "/api/v1/me/listings", nil, sid); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestCSRFGuardsUnsafeMethods(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, _ := do(t, app, "POST", "/login", map[string]string{"email": marenEmail, "password": demoPass})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}

	resp, _ = do(t, app, "GET", "/healthz", nil)
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}

	b, _ := json.Marshal(map[string]string{"email": marenEmail, "password": demoPass})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Csrf-Token", tok)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with csrf token, got %d", resp.StatusCode)
	}
}

func TestBodySizeLimit(t *testing.T) {
	app, _ := newTestApp(t, false)

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/api/v1/listings/prod_001/reviews", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuf) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

type logLine struct {
	Action string         `json:"action"`
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	ReqID  string         `json:"req_id"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

func captureLogs(t *testing.T, fn func()) []logLine {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var out []logLine
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logLine
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}

func TestAuthEventsAreLogged(t *testing.T) {
	app, _ := newTestApp(t, false)

	entries := captureLogs(t, func() {
		do(t, app, "POST", "/login", map[string]string{"email": marenEmail, "password": "Wrongpass1!"})
		do(t, app, "POST", "/login", map[string]string{"email": marenEmail, "password": demoPass})
	})

	var fail, ok *logLine
	for i := range entries {
		switch entries[i].Action {
		case "auth.login.fail":
			fail = &entries[i]
		case "auth.login.success":
			ok = &entries[i]
		}
	}
	if fail == nil || ok == nil {
		t.Fatalf("missing auth entries: %+v", entries)
	}
	if fail.Kind != "security" || fail.Level != "warning" || fail.ReqID == "" {
		t.Fatalf("unexpected failure entry %+v", *fail)
	}
	if ok.Kind != "audit" || ok.UserID != "a-maren" {
		t.Fatalf("unexpected success entry %+v", *ok)
	}
}

func TestForbiddenIsLogged(t *testing.T) {
	app, _ := newTestApp(t, false)
	ivo := login(t, app, ivoEmail)

	entries := captureLogs(t, func() {
		resp, _ := do(t, app, "DELETE", "/api/v1/listings/prod_001", nil, ivo)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})
	for _, e := range entries {
		if e.Action == "access.denied" && e.UserID == "a-ivo" && e.Fields["op"] == "listing.delete" {
			return
		}
	}
	t.Fatalf("access.denied entry missing: %+v", entries)
}
