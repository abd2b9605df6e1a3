package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"handcraftedhaven/internal/cache"
	"handcraftedhaven/internal/domain"
	"handcraftedhaven/internal/metrics"
	"handcraftedhaven/internal/query"
	"handcraftedhaven/internal/repos"
)

// DefaultBrowseKey is the only key the browse cache is ever consulted with.
const DefaultBrowseKey = "default-browse-page-1"

type BrowseResult struct {
	Items      []domain.ListingSummary `json:"items"`
	TotalPages int                     `json:"totalPages"`
	Page       int                     `json:"page"`
	Total      int                     `json:"total"`
}

// clone copies the items and their image lists so callers never share
// memory with the cached value.
func (r BrowseResult) clone() BrowseResult {
	r.Items = slices.Clone(r.Items)
	for i := range r.Items {
		r.Items[i].Images = slices.Clone(r.Items[i].Images)
	}
	return r
}

type CatalogService struct {
	Listings *repos.ListingRepo
	Cache    *cache.Result[BrowseResult]
	PageSize int
}

// NewCatalogService wires the browse cache in; a nil cache disables caching.
func NewCatalogService(listings *repos.ListingRepo, c *cache.Result[BrowseResult], pageSize int) *CatalogService {
	if pageSize <= 0 {
		pageSize = 15
	}
	return &CatalogService{Listings: listings, Cache: c, PageSize: pageSize}
}

// NewBrowseCache builds the result cache used by CatalogService, reporting
// hits and misses to metrics.
func NewBrowseCache(ttl time.Duration) *cache.Result[BrowseResult] {
	return cache.NewResult[BrowseResult](1, ttl, cache.Observer{Hit: metrics.CacheHit, Miss: metrics.CacheMiss})
}

// TotalPages is max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return min(max(page, 1), totalPages)
}

// Browse returns one page of listings matching p, newest first. Out of range
// pages resolve to the nearest valid page. A non-positive pageSize uses the
// service default. Store failures wrap domain.ErrCatalogUnavailable.
func (s *CatalogService) Browse(ctx context.Context, p query.Predicate, page, pageSize int) (BrowseResult, error) {
	if pageSize <= 0 {
		pageSize = s.PageSize
	}
	page = max(page, 1)
	start := time.Now()

	if s.Cache != nil && page == 1 && pageSize == s.PageSize && query.IsUnconstrained(p) {
		res, err := s.Cache.GetOrCompute(DefaultBrowseKey, func() (BrowseResult, error) {
			return s.browse(ctx, query.All{}, 1, pageSize)
		})
		metrics.ObserveBrowse("cache", err, time.Since(start))
		if err != nil {
			return BrowseResult{}, err
		}
		return res.clone(), nil
	}

	res, err := s.browse(ctx, p, page, pageSize)
	metrics.ObserveBrowse("store", err, time.Since(start))
	return res, err
}

func (s *CatalogService) browse(ctx context.Context, p query.Predicate, page, pageSize int) (BrowseResult, error) {
	total, err := s.Listings.Count(ctx, p)
	if err != nil {
		return BrowseResult{}, unavailable("count", err)
	}
	totalPages := TotalPages(total, pageSize)
	page = ClampPage(page, totalPages)

	items, err := s.Listings.Page(ctx, p, pageSize, (page-1)*pageSize)
	if err != nil {
		return BrowseResult{}, unavailable("page", err)
	}
	if items == nil {
		items = []domain.ListingSummary{}
	}
	return BrowseResult{Items: items, TotalPages: totalPages, Page: page, Total: total}, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, op, err)
}
