package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/repos"
)

const (
	// MoreFromSellerLimit caps the "more from this seller" panel.
	MoreFromSellerLimit = 4
	// NoStoryPlaceholder is the craft story shown when nothing usable exists.
	NoStoryPlaceholder = "The artisan hasn't shared the story behind this piece yet."
)

type ReviewView struct {
	Rating            int       `json:"rating"`
	Comment           string    `json:"comment"`
	AuthorDisplayName string    `json:"authorDisplayName"`
	CreatedAt         time.Time `json:"createdAt"`
}

type DetailView struct {
	Listing               domain.Listing          `json:"listing"`
	SellerDisplayName     string                  `json:"sellerDisplayName"`
	OtherListingsBySeller []domain.ListingSummary `json:"otherListingsBySeller"`
	Reviews               []ReviewView            `json:"reviews"`
	CraftStory            string                  `json:"craftStory"`
}

type DetailService struct {
	Listings         *repos.ListingRepo
	Artisans         *repos.ArtisanRepo
	Reviews          *repos.ReviewRepo
	CraftStoryMinLen int
}

func NewDetailService(listings *repos.ListingRepo, artisans *repos.ArtisanRepo, reviews *repos.ReviewRepo, craftStoryMinLen int) *DetailService {
	return &DetailService{Listings: listings, Artisans: artisans, Reviews: reviews, CraftStoryMinLen: craftStoryMinLen}
}

// Assemble builds the product page for one listing. A missing listing is
// domain.ErrNotFound.
func (s *DetailService) Assemble(ctx context.Context, listingID string) (DetailView, error) {
	l, err := s.Listings.Get(ctx, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return DetailView{}, fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
	}
	if err != nil {
		return DetailView{}, unavailable("listing", err)
	}

	seller, err := s.seller(ctx, l.ArtisanID)
	if err != nil {
		return DetailView{}, err
	}
	sellerName := domain.SellerName(seller)

	others := []domain.ListingSummary{}
	if l.ArtisanID != "" {
		more, err := s.Listings.ByArtisan(ctx, l.ArtisanID, l.ID, MoreFromSellerLimit)
		if err != nil {
			return DetailView{}, unavailable("seller listings", err)
		}
		for _, m := range more {
			others = append(others, domain.ListingSummary{
				ID: m.ID, Title: m.Title, Price: m.Price, Images: m.Images,
				Category: m.Category, CreatedAt: m.CreatedAt, SellerDisplayName: sellerName,
			})
		}
	}

	rows, err := s.Reviews.ByListing(ctx, l.ID)
	if err != nil {
		return DetailView{}, unavailable("reviews", err)
	}
	reviews := make([]ReviewView, len(rows))
	for i, r := range rows {
		reviews[i] = ReviewView{
			Rating:            r.Rating,
			Comment:           r.Comment,
			AuthorDisplayName: ReviewerName(r),
			CreatedAt:         r.CreatedAt,
		}
	}

	return DetailView{
		Listing:               l,
		SellerDisplayName:     sellerName,
		OtherListingsBySeller: others,
		Reviews:               reviews,
		CraftStory:            CraftStory(l, s.CraftStoryMinLen),
	}, nil
}

func (s *DetailService) seller(ctx context.Context, id string) (*domain.Artisan, error) {
	if id == "" {
		return nil, nil
	}
	a, err := s.Artisans.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("seller", err)
	}
	return a, nil
}

// ReviewerName applies the seller naming rule to a review's author, using
// the guest's name and email when there is no account.
func ReviewerName(r repos.ReviewRow) string {
	if r.Author != nil {
		return domain.DisplayName(r.Author.FirstName, r.Author.LastName, r.Author.Email, domain.ReviewerPlaceholder)
	}
	return domain.DisplayName(r.GuestName, "", r.GuestEmail, domain.ReviewerPlaceholder)
}

// CraftStory picks the narrative for a listing: its own story, else a
// description longer than minLen runes, else NoStoryPlaceholder.
func CraftStory(l domain.Listing, minLen int) string {
	if story := strings.TrimSpace(l.CraftStory); story != "" {
		return story
	}
	if desc := strings.TrimSpace(l.Description); utf8.RuneCountInString(desc) > minLen {
		return desc
	}
	return NoStoryPlaceholder
}
