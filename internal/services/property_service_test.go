package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

func validCreateReq() dtos.CreatePropertyRequest {
	return dtos.CreatePropertyRequest{
		Title:       "Two bed near the park",
		Description: "Bright corner unit with a view of the park.",
		Price:       425000,
		Type:        "apartment",
		Status:      "for-sale",
		Bedrooms:    2,
		Bathrooms:   1,
		Size:        78,
		Address:     "11 Park Lane",
		City:        "Springfield",
		State:       "IL",
		ZipCode:     "62704",
	}
}

func TestCreateStartsPending(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewPropertyService(propRepo, nil)

	agent := auth.Agent{ID: uuid.New()}
	p, err := svc.Create(context.Background(), agent, validCreateReq())
	require.NoError(t, err)

	require.Equal(t, models.PublicationPending, p.Publication.Status)
	require.Equal(t, agent.ID, p.OwnerID)
	require.False(t, p.Publication.Published())
	require.Nil(t, p.Publication.Approved())
}

func TestCreateDeniedForUsersAndAnonymous(t *testing.T) {
	svc := NewPropertyService(newFakePropertyRepo(), nil)

	_, err := svc.Create(context.Background(), auth.User{ID: uuid.New()}, validCreateReq())
	require.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = svc.Create(context.Background(), auth.Anonymous{}, validCreateReq())
	require.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestGetHidesUnpublishedFromOutsiders(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewPropertyService(propRepo, nil)

	owner := auth.Agent{ID: uuid.New()}
	p, err := svc.Create(context.Background(), owner, validCreateReq())
	require.NoError(t, err)

	// Anonymous and unrelated users see a 404, not a 403, so the pending
	// listing's existence leaks nothing.
	_, err = svc.Get(context.Background(), auth.Anonymous{}, p.ID)
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	require.Equal(t, utils.ErrCodeNotFound, appErr.Code)

	_, err = svc.Get(context.Background(), auth.User{ID: uuid.New()}, p.ID)
	require.Error(t, err)

	// Owner and admin still read it.
	got, err := svc.Get(context.Background(), owner, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	_, err = svc.Get(context.Background(), auth.Admin{ID: uuid.New()}, p.ID)
	require.NoError(t, err)
}

func TestUpdateDeniedForNonOwner(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewPropertyService(propRepo, nil)

	owner := auth.Agent{ID: uuid.New()}
	p, err := svc.Create(context.Background(), owner, validCreateReq())
	require.NoError(t, err)

	title := "hijacked"
	_, err = svc.Update(context.Background(), auth.Agent{ID: uuid.New()}, p.ID, dtos.UpdatePropertyRequest{Title: &title})
	require.ErrorIs(t, err, utils.ErrUnauthorized)

	got, err := propRepo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotEqual(t, title, got.Title)
}

func TestDeleteOwnerAndAdminOnly(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewPropertyService(propRepo, nil)

	owner := auth.Agent{ID: uuid.New()}
	p, err := svc.Create(context.Background(), owner, validCreateReq())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), auth.User{ID: uuid.New()}, p.ID), utils.ErrUnauthorized)
	require.NoError(t, svc.Delete(context.Background(), owner, p.ID))

	got, err := propRepo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListOwnReturnsAllStates(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	svc := NewPropertyService(propRepo, nil)
	pubSvc := NewPublicationService(propRepo, userRepo, &fakeMailer{}, nil)

	owner := auth.Agent{ID: uuid.New()}
	admin := auth.Admin{ID: uuid.New()}

	a, err := svc.Create(context.Background(), owner, validCreateReq())
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), owner, validCreateReq())
	require.NoError(t, err)

	_, err = pubSvc.Approve(context.Background(), admin, a.ID)
	require.NoError(t, err)
	_, err = pubSvc.Reject(context.Background(), admin, b.ID, "needs photos")
	require.NoError(t, err)

	own, err := svc.ListOwn(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, own, 2)
}

func TestSetFeaturedAdminOnly(t *testing.T) {
	propRepo := newFakePropertyRepo()
	svc := NewPropertyService(propRepo, nil)

	owner := auth.Agent{ID: uuid.New()}
	p, err := svc.Create(context.Background(), owner, validCreateReq())
	require.NoError(t, err)

	_, err = svc.SetFeatured(context.Background(), owner, p.ID, true)
	require.ErrorIs(t, err, utils.ErrUnauthorized)

	got, err := svc.SetFeatured(context.Background(), auth.Admin{ID: uuid.New()}, p.ID, true)
	require.NoError(t, err)
	require.True(t, got.Featured)
}
