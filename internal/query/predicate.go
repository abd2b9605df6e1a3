// Package query turns browse input into a structured listing predicate.
package query

import (
	"fmt"
	"slices"
	"strings"

	"handcraftedhaven/internal/domain"
)

// Predicate is a filter over the listing collection. The set of node types
// is closed: All, TextContains, CategoryIn and And.
type Predicate interface {
	isPredicate()
	String() string
}

// All matches every listing.
type All struct{}

// TextContains matches listings whose title or description contains Needle,
// ignoring case.
type TextContains struct {
	Needle string
}

// CategoryIn matches listings whose category is any of Categories.
type CategoryIn struct {
	Categories []domain.Category
}

// And matches listings that satisfy every term.
type And struct {
	Terms []Predicate
}

func (All) isPredicate()          {}
func (TextContains) isPredicate() {}
func (CategoryIn) isPredicate()   {}
func (And) isPredicate()          {}

func (All) String() string            { return "all" }
func (p TextContains) String() string { return fmt.Sprintf("text~%q", p.Needle) }
func (p CategoryIn) String() string {
	parts := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		parts[i] = string(c)
	}
	return "category in (" + strings.Join(parts, ",") + ")"
}
func (p And) String() string {
	parts := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// IsUnconstrained reports whether p matches every listing.
func IsUnconstrained(p Predicate) bool {
	switch v := p.(type) {
	case nil, All:
		return true
	case And:
		for _, t := range v.Terms {
			if !IsUnconstrained(t) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Fold is the case folding used for text matching, both here and for the
// folded columns the store searches.
func Fold(s string) string { return strings.ToLower(s) }

// Matches evaluates p against a single listing in memory.
func Matches(p Predicate, l domain.Listing) bool {
	switch v := p.(type) {
	case nil, All:
		return true
	case TextContains:
		n := Fold(v.Needle)
		return strings.Contains(Fold(l.Title), n) || strings.Contains(Fold(l.Description), n)
	case CategoryIn:
		return slices.Contains(v.Categories, l.Category)
	case And:
		for _, t := range v.Terms {
			if !Matches(t, l) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("query: unknown predicate node %T", p))
	}
}
