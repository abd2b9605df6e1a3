package services

import (
	"context"

	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/query"
	"handcraftedhaven/internal/repos"
)

const (
	RecentListingsLimit = 5
	TopSellersLimit     = 5
)

// Overview is the dashboard summary of the whole marketplace.
type Overview struct {
	TotalListings  int                     `json:"totalListings"`
	TotalArtisans  int                     `json:"totalArtisans"`
	RecentListings []domain.ListingSummary `json:"recentListings"`
	TopSellers     []domain.ArtisanSummary `json:"topSellers"`
}

type OverviewService struct {
	Listings *repos.ListingRepo
	Artisans *repos.ArtisanRepo
}

func NewOverviewService(listings *repos.ListingRepo, artisans *repos.ArtisanRepo) *OverviewService {
	return &OverviewService{Listings: listings, Artisans: artisans}
}

func (s *OverviewService) Overview(ctx context.Context) (Overview, error) {
	var (
		ov  Overview
		err error
	)
	if ov.TotalListings, err = s.Listings.Count(ctx, query.All{}); err != nil {
		return Overview{}, unavailable("count listings", err)
	}
	if ov.TotalArtisans, err = s.Artisans.Count(ctx); err != nil {
		return Overview{}, unavailable("count artisans", err)
	}
	if ov.RecentListings, err = s.Listings.Page(ctx, query.All{}, RecentListingsLimit, 0); err != nil {
		return Overview{}, unavailable("recent listings", err)
	}
	if ov.TopSellers, err = s.Artisans.TopSellers(ctx, TopSellersLimit); err != nil {
		return Overview{}, unavailable("top sellers", err)
	}
	return ov, nil
}

// Directory lists every artisan with their listing count, newest first.
func (s *OverviewService) Directory(ctx context.Context) ([]domain.ArtisanSummary, error) {
	out, err := s.Artisans.WithListingCounts(ctx)
	if err != nil {
		return nil, unavailable("artisan directory", err)
	}
	return out, nil
}
