package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/models"
)

func TestSearchForcesPublishedForNonAdmin(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewListingService(propRepo, nil)

	q := url.Values{}
	q.Set("page", "1")

	_, err := svc.Search(context.Background(), auth.Anonymous{}, q)
	require.NoError(t, err)
	require.True(t, propRepo.lastFilter.OnlyPublished)

	_, err = svc.Search(context.Background(), auth.User{ID: uuid.New()}, q)
	require.NoError(t, err)
	require.True(t, propRepo.lastFilter.OnlyPublished)

	_, err = svc.Search(context.Background(), auth.Agent{ID: uuid.New()}, q)
	require.NoError(t, err)
	require.True(t, propRepo.lastFilter.OnlyPublished)

	_, err = svc.Search(context.Background(), auth.Admin{ID: uuid.New()}, q)
	require.NoError(t, err)
	require.False(t, propRepo.lastFilter.OnlyPublished)
}

func TestSearchOnlyReturnsPublished(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewListingService(propRepo, nil)

	owner := uuid.New()
	require.NoError(t, propRepo.Create(context.Background(), &models.Property{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       "published one",
		Publication: models.PublishedPublication(),
	}))
	require.NoError(t, propRepo.Create(context.Background(), &models.Property{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       "pending one",
		Publication: models.PendingPublication(),
	}))
	require.NoError(t, propRepo.Create(context.Background(), &models.Property{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       "rejected one",
		Publication: models.RejectedPublication("nope"),
	}))

	resp, err := svc.Search(context.Background(), auth.Anonymous{}, url.Values{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	require.Len(t, resp.Properties, 1)
	require.Equal(t, "published one", resp.Properties[0].Title)
	require.True(t, resp.Properties[0].Published)
}

func TestParseListingQuery(t *testing.T) {
	q := url.Values{}
	q.Set("type", "apartment")
	q.Set("status", "for-rent")
	q.Set("city", "Springfield")
	q.Set("min_price", "1000")
	q.Set("max_price", "2500")
	q.Set("min_bedrooms", "2")
	q.Set("featured", "true")
	q.Set("search", "park")
	q.Set("page", "3")
	q.Set("per_page", "24")

	f := parseListingQuery(q)
	require.Equal(t, "apartment", f.Type)
	require.Equal(t, models.StatusForRent, f.Status)
	require.Equal(t, "Springfield", f.City)
	require.NotNil(t, f.MinPrice)
	require.Equal(t, 1000.0, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	require.Equal(t, 2500.0, *f.MaxPrice)
	require.NotNil(t, f.MinBedrooms)
	require.Equal(t, 2, *f.MinBedrooms)
	require.True(t, f.FeaturedOnly)
	require.Equal(t, "park", f.Search)
	require.Equal(t, 3, f.Page)
	require.Equal(t, 24, f.PerPage)
}

func TestParseListingQueryIgnoresGarbage(t *testing.T) {
	q := url.Values{}
	q.Set("status", "upside-down")
	q.Set("min_price", "cheap")
	q.Set("page", "first")

	f := parseListingQuery(q)
	require.Empty(t, f.Status)
	require.Nil(t, f.MinPrice)
	require.Zero(t, f.Page)
}

func TestFeaturedOnlyReturnsFeaturedPublished(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewListingService(propRepo, nil)

	require.NoError(t, propRepo.Create(context.Background(), &models.Property{
		ID:          uuid.New(),
		Title:       "featured live",
		Featured:    true,
		Publication: models.PublishedPublication(),
	}))
	require.NoError(t, propRepo.Create(context.Background(), &models.Property{
		ID:          uuid.New(),
		Title:       "featured but pending",
		Featured:    true,
		Publication: models.PendingPublication(),
	}))
	require.NoError(t, propRepo.Create(context.Background(), &models.Property{
		ID:          uuid.New(),
		Title:       "live but plain",
		Publication: models.PublishedPublication(),
	}))

	out, err := svc.Featured(context.Background(), auth.Anonymous{}, 6)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "featured live", out[0].Title)
}
