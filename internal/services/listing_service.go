package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/cache"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

const listingCacheTTL = 2 * time.Minute

// ---------------------------------------------------------------------
// ListingService interface
// ---------------------------------------------------------------------

// ListingService answers the public browse/search queries. Results for
// non-admin actors are restricted to published listings regardless of what
// the query asks for.
type ListingService interface {
	Search(ctx context.Context, actor auth.Actor, query url.Values) (*dtos.PropertyListResponse, error)
	Featured(ctx context.Context, actor auth.Actor, limit int) ([]dtos.PropertyResponse, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type listingService struct {
	propertyRepo repositories.PropertyRepository
	cache        *cache.Cache
}

func NewListingService(propertyRepo repositories.PropertyRepository, listingCache *cache.Cache) ListingService {
	return &listingService{propertyRepo: propertyRepo, cache: listingCache}
}

func (s *listingService) Search(ctx context.Context, actor auth.Actor, query url.Values) (*dtos.PropertyListResponse, error) {
	f := parseListingQuery(query)

	// Visibility forcing: only admins may widen the view beyond Published.
	if !auth.IsAdmin(actor) {
		f.OnlyPublished = true
		f.Publication = ""
		f.OwnerID = nil
	}

	// Only anonymous/public queries go through redis; per-admin views are
	// too varied to be worth caching.
	cacheable := !auth.IsAdmin(actor)
	key := searchCacheKey(f)

	if cacheable {
		var cached dtos.PropertyListResponse
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	page, err := s.propertyRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	resp := &dtos.PropertyListResponse{
		Properties:  dtos.NewPropertyResponses(page.Items),
		Total:       page.Total,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}

	if cacheable {
		s.cache.Set(ctx, key, resp, listingCacheTTL)
	}
	return resp, nil
}

func (s *listingService) Featured(ctx context.Context, actor auth.Actor, limit int) ([]dtos.PropertyResponse, error) {
	if limit <= 0 || limit > utils.MaxPageSize {
		limit = utils.DefaultPageSize
	}

	f := repositories.PropertyFilter{
		FeaturedOnly:  true,
		OnlyPublished: true,
		Page:          1,
		PerPage:       limit,
	}

	key := searchCacheKey(f)
	var cached []dtos.PropertyResponse
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	page, err := s.propertyRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	resp := dtos.NewPropertyResponses(page.Items)
	s.cache.Set(ctx, key, resp, listingCacheTTL)
	return resp, nil
}

// parseListingQuery maps the HTTP query string onto a filter. Unparseable
// numbers are ignored rather than rejected; browse URLs are user-typed.
func parseListingQuery(q url.Values) repositories.PropertyFilter {
	f := repositories.PropertyFilter{
		Type:   q.Get("type"),
		City:   q.Get("city"),
		Search: q.Get("search"),
	}

	if status, err := models.ParseMarketStatus(q.Get("status")); err == nil {
		f.Status = status
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		f.MaxPrice = &v
	}
	if v, err := strconv.Atoi(q.Get("min_bedrooms")); err == nil {
		f.MinBedrooms = &v
	}
	if q.Get("featured") == "true" {
		f.FeaturedOnly = true
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil {
		f.PerPage = v
	}
	return f
}

func searchCacheKey(f repositories.PropertyFilter) string {
	params := map[string]string{
		"type":           f.Type,
		"status":         string(f.Status),
		"city":           f.City,
		"search":         f.Search,
		"featured":       strconv.FormatBool(f.FeaturedOnly),
		"only_published": strconv.FormatBool(f.OnlyPublished),
		"page":           strconv.Itoa(f.Page),
		"per_page":       strconv.Itoa(f.PerPage),
	}
	if f.MinPrice != nil {
		params["min_price"] = fmt.Sprintf("%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		params["max_price"] = fmt.Sprintf("%g", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		params["min_bedrooms"] = strconv.Itoa(*f.MinBedrooms)
	}
	return cache.QueryKey(listingCachePrefix, params)
}
