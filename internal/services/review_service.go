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

// ReviewInput carries a review submission. AuthorID comes from the session,
// never from the request body; guests supply GuestName and GuestEmail.
type ReviewInput struct {
	ListingID  string `json:"-" form:"-" validate:"required"`
	Rating     int    `json:"rating" form:"rating" validate:"min=1,max=5"`
	Comment    string `json:"comment" form:"comment" validate:"max=2000"`
	AuthorID   string `json:"-" form:"-"`
	GuestName  string `json:"firstName" form:"firstName" validate:"max=50"`
	GuestEmail string `json:"email" form:"email" validate:"max=254"`
}

type ReviewService struct {
	Listings *repos.ListingRepo
	Reviews  *repos.ReviewRepo
	Now      func() time.Time
}

func NewReviewService(listings *repos.ListingRepo, reviews *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Listings: listings, Reviews: reviews, Now: time.Now}
}

// Submit validates and stores a review. Every precondition is checked before
// the single insert, so a rejected submission never leaves a partial write.
func (s *ReviewService) Submit(ctx context.Context, in ReviewInput) (domain.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	if err := validate.Struct(in); err != nil {
		return domain.Review{}, err
	}

	rv := domain.Review{
		ID:        uuid.NewString(),
		ListingID: in.ListingID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: s.Now().UTC(),
	}
	if in.AuthorID != "" {
		rv.AuthorID = in.AuthorID
	} else {
		name, ok := validate.Name(in.GuestName)
		if !ok || in.GuestEmail == "" {
			return domain.Review{}, fmt.Errorf("%w: first name and email are required to leave a review", domain.ErrInvalidInput)
		}
		email, ok := validate.Email(in.GuestEmail)
		if !ok {
			return domain.Review{}, fmt.Errorf("%w: email", domain.ErrInvalidInput)
		}
		rv.GuestName = name
		rv.GuestEmail = email
	}

	if _, err := s.Listings.Get(ctx, in.ListingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, fmt.Errorf("%w: listing %s", domain.ErrNotFound, in.ListingID)
		}
		return domain.Review{}, unavailable("listing", err)
	}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		return domain.Review{}, unavailable("create review", err)
	}
	return rv, nil
}
