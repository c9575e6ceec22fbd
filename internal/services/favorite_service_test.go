package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

type fakeFavoriteRepo struct {
	favs map[uuid.UUID][]uuid.UUID
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favs: make(map[uuid.UUID][]uuid.UUID)}
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	for _, id := range r.favs[userID] {
		if id == propertyID {
			return nil
		}
	}
	r.favs[userID] = append(r.favs[userID], propertyID)
	return nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	ids := r.favs[userID]
	for i, id := range ids {
		if id == propertyID {
			r.favs[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFavoriteRepo) ListPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.favs[userID], nil
}

func (r *fakeFavoriteRepo) Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	for _, id := range r.favs[userID] {
		if id == propertyID {
			return true, nil
		}
	}
	return false, nil
}

func TestFavoriteOnlyPublishedListings(t *testing.T) {
	propRepo := newFakePropertyRepo()
	favRepo := newFakeFavoriteRepo()
	svc := NewFavoriteService(favRepo, propRepo)

	user := auth.User{ID: uuid.New()}

	pending := &models.Property{ID: uuid.New(), Title: "pending", Publication: models.PendingPublication()}
	require.NoError(t, propRepo.Create(context.Background(), pending))

	err := svc.Add(context.Background(), user, pending.ID)
	require.Error(t, err)

	live := &models.Property{ID: uuid.New(), Title: "live", Publication: models.PublishedPublication()}
	require.NoError(t, propRepo.Create(context.Background(), live))
	require.NoError(t, svc.Add(context.Background(), user, live.ID))

	// Adding twice stays a single favorite.
	require.NoError(t, svc.Add(context.Background(), user, live.ID))
	ids, err := svc.IDs(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, ids, 1)
}

func TestFavoriteListHidesUnpublished(t *testing.T) {
	propRepo := newFakePropertyRepo()
	favRepo := newFakeFavoriteRepo()
	svc := NewFavoriteService(favRepo, propRepo)

	user := auth.User{ID: uuid.New()}

	live := &models.Property{ID: uuid.New(), Title: "still live", City: "Austin", Publication: models.PublishedPublication()}
	pulled := &models.Property{ID: uuid.New(), Title: "pulled later", City: "Boston", Publication: models.PublishedPublication()}
	require.NoError(t, propRepo.Create(context.Background(), live))
	require.NoError(t, propRepo.Create(context.Background(), pulled))

	require.NoError(t, svc.Add(context.Background(), user, live.ID))
	require.NoError(t, svc.Add(context.Background(), user, pulled.ID))

	// Simulate the second listing being taken down after it was saved.
	require.NoError(t, propRepo.UpdateWithRetry(context.Background(), pulled.ID, func(p *models.Property) error {
		p.Publication = models.PendingPublication()
		return nil
	}))

	out, err := svc.List(context.Background(), user, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "still live", out[0].Title)

	// The favorite row survives; the listing resurfaces when re-approved.
	require.NoError(t, propRepo.UpdateWithRetry(context.Background(), pulled.ID, func(p *models.Property) error {
		p.Publication = models.PublishedPublication()
		return nil
	}))
	out, err = svc.List(context.Background(), user, "")
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestFavoriteListSearchMatchesTitleAndPlace(t *testing.T) {
	propRepo := newFakePropertyRepo()
	favRepo := newFakeFavoriteRepo()
	svc := NewFavoriteService(favRepo, propRepo)

	user := auth.User{ID: uuid.New()}

	a := &models.Property{ID: uuid.New(), Title: "Lakeside cabin", City: "Tahoe", State: "CA", Publication: models.PublishedPublication()}
	b := &models.Property{ID: uuid.New(), Title: "City condo", City: "Denver", State: "CO", Publication: models.PublishedPublication()}
	require.NoError(t, propRepo.Create(context.Background(), a))
	require.NoError(t, propRepo.Create(context.Background(), b))
	require.NoError(t, svc.Add(context.Background(), user, a.ID))
	require.NoError(t, svc.Add(context.Background(), user, b.ID))

	out, err := svc.List(context.Background(), user, "tahoe")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Lakeside cabin", out[0].Title)

	out, err = svc.List(context.Background(), user, "CO")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "City condo", out[0].Title)
}

func TestFavoritesRequireAuthentication(t *testing.T) {
	svc := NewFavoriteService(newFakeFavoriteRepo(), newFakePropertyRepo())

	require.ErrorIs(t, svc.Add(context.Background(), auth.Anonymous{}, uuid.New()), utils.ErrUnauthorized)
	_, err := svc.List(context.Background(), auth.Anonymous{}, "")
	require.ErrorIs(t, err, utils.ErrUnauthorized)
}
