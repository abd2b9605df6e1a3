package handlers

import (
	"github.com/jmoiron/sqlx"

	"handcraftedhaven/internal/config"
	"handcraftedhaven/internal/repos"
	"handcraftedhaven/internal/services"
)

type Deps struct {
	SearchHandler   *SearchHandler
	ProductHandler  *ProductHandler
	ListingHandler  *ListingHandler
	ReviewHandler   *ReviewHandler
	OverviewHandler *OverviewHandler
	AuthHandler     *AuthHandler
	Auth            *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	listingRepo := repos.NewListingRepo(db)
	artisanRepo := repos.NewArtisanRepo(db)
	reviewRepo := repos.NewReviewRepo(db)

	catalogSvc := services.NewCatalogService(listingRepo, services.NewBrowseCache(cfg.BrowseCacheTTL), cfg.PageSize)
	detailSvc := services.NewDetailService(listingRepo, artisanRepo, reviewRepo, cfg.CraftStoryMinLen)
	listingSvc := services.NewListingService(listingRepo)
	reviewSvc := services.NewReviewService(listingRepo, reviewRepo)
	overviewSvc := services.NewOverviewService(listingRepo, artisanRepo)

	return &Deps{
		SearchHandler:   &SearchHandler{Catalog: catalogSvc, Timeout: cfg.QueryTimeout},
		ProductHandler:  &ProductHandler{Assembler: detailSvc, Timeout: cfg.QueryTimeout},
		ListingHandler:  &ListingHandler{Listings: listingSvc, Timeout: cfg.QueryTimeout},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc, Timeout: cfg.QueryTimeout},
		OverviewHandler: &OverviewHandler{Overview: overviewSvc, Timeout: cfg.QueryTimeout},
		AuthHandler:     &AuthHandler{Auth: auth},
		Auth:            auth,
	}
}
