package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"handcraftedhaven/internal/domain"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reMediaRef = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_./-]{0,255}$`)
)

var v *validator.Validate

func init() { v = newValidator() }

func newValidator() *validator.Validate {
	vv := validator.New(validator.WithRequiredStructEnabled())
	_ = vv.RegisterValidation("image_ref", func(fl validator.FieldLevel) bool {
		return ImageRef(fl.Field().String())
	})
	_ = vv.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseCategory(fl.Field().String())
		return ok
	})
	return vv
}

// Struct runs the `validate` tags on s. Failures wrap domain.ErrInvalidInput
// and name the offending fields.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (listing/artisan ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// ImageRef accepts absolute http(s) URLs and relative media paths.
func ImageRef(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return v.Var(s, "url") == nil
	}
	return reMediaRef.MatchString(s) && !strings.Contains(s, "..")
}

// Q trims a search query and caps its length. Any content is allowed since
// it only ever reaches the store as a bound LIKE argument.
func Q(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 100 {
		s = strings.TrimSpace(string(r[:100]))
	}
	return s
}

// Page coerces a raw page parameter to a positive integer, defaulting to 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Categories keeps the recognised values from raw, which may hold repeated
// or comma-separated entries. Unknown values are dropped.
func Categories(raw ...string) []domain.Category {
	var out []domain.Category
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if c, ok := domain.ParseCategory(part); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 50 {
		return "", false
	}
	return s, true
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
