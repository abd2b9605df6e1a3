package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/repos"
	"handcraftedhaven/internal/validate"
)

// ListingInput is what an artisan submits when creating or editing a listing.
// Price is in minor units.
type ListingInput struct {
	Title       string   `json:"title" form:"title" validate:"required,max=200"`
	Price       int64    `json:"price" form:"price" validate:"gte=0"`
	Description string   `json:"description" form:"description" validate:"max=5000"`
	CraftStory  string   `json:"craftStory" form:"craftStory" validate:"max=20000"`
	Images      []string `json:"images" form:"images" validate:"max=10,dive,image_ref"`
	Category    string   `json:"category" form:"category" validate:"required,category"`
}

func (in ListingInput) normalized() ListingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CraftStory = strings.TrimSpace(in.CraftStory)
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	in.Images = images
	return in
}

type ListingService struct {
	Listings *repos.ListingRepo
	Now      func() time.Time
}

func NewListingService(listings *repos.ListingRepo) *ListingService {
	return &ListingService{Listings: listings, Now: time.Now}
}

func (s *ListingService) Create(ctx context.Context, artisanID string, in ListingInput) (domain.Listing, error) {
	if artisanID == "" {
		return domain.Listing{}, domain.ErrForbidden
	}
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return domain.Listing{}, err
	}
	now := s.Now().UTC()
	l := domain.Listing{
		ID:          uuid.NewString(),
		ArtisanID:   artisanID,
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		CraftStory:  in.CraftStory,
		Images:      in.Images,
		Category:    domain.Category(in.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return domain.Listing{}, unavailable("create listing", err)
	}
	return l, nil
}

func (s *ListingService) Update(ctx context.Context, artisanID, listingID string, in ListingInput) (domain.Listing, error) {
	l, err := s.owned(ctx, artisanID, listingID)
	if err != nil {
		return domain.Listing{}, err
	}
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return domain.Listing{}, err
	}
	l.Title = in.Title
	l.Price = in.Price
	l.Description = in.Description
	l.CraftStory = in.CraftStory
	l.Images = in.Images
	l.Category = domain.Category(in.Category)
	l.UpdatedAt = s.Now().UTC()
	if err := s.Listings.Update(ctx, l); err != nil {
		return domain.Listing{}, unavailable("update listing", err)
	}
	return l, nil
}

// Delete removes the listing together with its reviews.
func (s *ListingService) Delete(ctx context.Context, artisanID, listingID string) error {
	if _, err := s.owned(ctx, artisanID, listingID); err != nil {
		return err
	}
	if err := s.Listings.Delete(ctx, listingID); err != nil {
		return unavailable("delete listing", err)
	}
	return nil
}

// ListMine returns every listing the artisan owns, newest first.
func (s *ListingService) ListMine(ctx context.Context, artisanID string) ([]domain.Listing, error) {
	out, err := s.Listings.ByArtisan(ctx, artisanID, "", 0)
	if err != nil {
		return nil, unavailable("my listings", err)
	}
	if out == nil {
		out = []domain.Listing{}
	}
	return out, nil
}

func (s *ListingService) owned(ctx context.Context, artisanID, listingID string) (domain.Listing, error) {
	l, err := s.Listings.Get(ctx, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
	}
	if err != nil {
		return domain.Listing{}, unavailable("listing", err)
	}
	if artisanID == "" || l.ArtisanID != artisanID {
		return domain.Listing{}, domain.ErrForbidden
	}
	return l, nil
}
