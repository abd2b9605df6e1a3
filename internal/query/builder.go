package query

import (
	"fmt"
	"slices"
	"strings"

	"handcraftedhaven/internal/domain"
)

// Build combines a free-text query and a category selection into a predicate.
// An empty query and an empty selection yield All.
func Build(q string, categories []domain.Category) Predicate {
	var terms []Predicate
	if q = strings.TrimSpace(q); q != "" {
		terms = append(terms, TextContains{Needle: q})
	}
	if cats := normalize(categories); len(cats) > 0 {
		terms = append(terms, CategoryIn{Categories: cats})
	}
	switch len(terms) {
	case 0:
		return All{}
	case 1:
		return terms[0]
	default:
		return And{Terms: terms}
	}
}

// BuildStrict is Build for raw category strings; any value outside the
// closed set is rejected with domain.ErrInvalidInput.
func BuildStrict(q string, rawCategories []string) (Predicate, error) {
	cats := make([]domain.Category, 0, len(rawCategories))
	for _, raw := range rawCategories {
		c, ok := domain.ParseCategory(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, raw)
		}
		cats = append(cats, c)
	}
	return Build(q, cats), nil
}

func normalize(in []domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(in))
	for _, c := range in {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
