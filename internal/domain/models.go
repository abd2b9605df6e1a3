package domain

import (
	"strings"
	"time"
)

type Category string

const (
	Metalwork Category = "METALWORK"
	Textile   Category = "TEXTILE"
	Woodwork  Category = "WOODWORK"
)

// Categories lists the closed category set in display order.
var Categories = []Category{Metalwork, Textile, Woodwork}

// ParseCategory matches s (case-insensitive, trimmed) against the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case Metalwork, Textile, Woodwork:
		return c, true
	}
	return "", false
}

type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"` // minor units (cents)
	Description string    `json:"description"`
	CraftStory  string    `json:"craftStory,omitempty"`
	Images      []string  `json:"images"`
	Category    Category  `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ArtisanID   string    `json:"artisanId"`
}

// ListingSummary is a browse row: a listing with its seller name denormalized.
type ListingSummary struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Price             int64     `json:"price"`
	Images            []string  `json:"images"`
	Category          Category  `json:"category"`
	CreatedAt         time.Time `json:"createdAt"`
	SellerDisplayName string    `json:"sellerDisplayName"`
}

type Review struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	AuthorID   string    `json:"authorId,omitempty"`
	GuestName  string    `json:"guestName,omitempty"`
	GuestEmail string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsGuest reports whether the review was left without an account.
func (r Review) IsGuest() bool { return r.AuthorID == "" }
