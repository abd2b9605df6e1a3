package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"handcraftedhaven/internal/domain"
)

var logger = newLogger(os.Stdout)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "action",
		},
	})
	return l
}

// SetOutput redirects every subsequent entry to w.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// Logger exposes the underlying logger for wiring into other libraries.
func Logger() *logrus.Logger { return logger }

func entry(kind string, c *fiber.Ctx, err error, fields map[string]any) *logrus.Entry {
	f := logrus.Fields{"kind": kind}
	if len(fields) > 0 {
		f["fields"] = fields
	}
	if c != nil {
		f["ip"] = c.IP()
		f["method"] = c.Method()
		f["path"] = c.Path()
		f["status"] = c.Response().StatusCode()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			f["req_id"] = rid
		}
		if a, ok := c.Locals("artisan").(*domain.Artisan); ok && a != nil {
			f["user_id"] = a.ID
		}
	}
	e := logger.WithFields(f)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	entry("info", c, nil, fields).Info(action)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	entry("audit", c, nil, fields).Info(action)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	entry("security", c, nil, fields).Warn(action)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	entry("error", c, err, fields).Error(action)
}
