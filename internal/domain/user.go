package domain

import (
	"strings"
	"time"
)

const (
	// SellerPlaceholder is shown when a listing has no artisan record.
	SellerPlaceholder = "Artisan"
	// ReviewerPlaceholder is shown when a review author cannot be resolved.
	ReviewerPlaceholder = "Unknown Artisan"
)

// Artisan is the seller-role user that owns listings.
type Artisan struct {
	ID        string `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	// CreatedAt is only read on insert; zero means now.
	CreatedAt time.Time `db:"-" json:"-"`
}

// ArtisanSummary is a directory row: an artisan and how many listings they own.
type ArtisanSummary struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	ListingCount int       `json:"listingCount"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// DisplayName applies the seller naming rule: "first last", then the local
// part of the email, then the placeholder.
func DisplayName(first, last, email, placeholder string) string {
	if name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last)); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(strings.TrimSpace(email), "@"); local != "" {
		return local
	}
	return placeholder
}

// SellerName resolves the display name of a possibly missing artisan.
func SellerName(a *Artisan) string {
	if a == nil {
		return SellerPlaceholder
	}
	return DisplayName(a.FirstName, a.LastName, a.Email, SellerPlaceholder)
}
