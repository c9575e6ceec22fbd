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

func seedAgentWithListing(t *testing.T, propRepo *fakePropertyRepo, userRepo *fakeUserRepo) (auth.Actor, *models.Property) {
	t.Helper()

	agentID := uuid.New()
	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		ID:    agentID,
		Email: "agent@example.com",
		Role:  models.RoleAgent,
	}))

	p := &models.Property{
		ID:          uuid.New(),
		OwnerID:     agentID,
		Title:       "Sunny loft",
		Status:      models.StatusForSale,
		Publication: models.PendingPublication(),
	}
	require.NoError(t, propRepo.Create(context.Background(), p))
	return auth.Agent{ID: agentID}, p
}

func TestApproveSetsPublished(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewPublicationService(propRepo, userRepo, mailer, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	got, err := svc.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PublicationPublished, got.Publication.Status)
	require.True(t, got.Publication.Published())
	require.NotNil(t, got.Publication.Approved())
	require.True(t, *got.Publication.Approved())
	require.Empty(t, got.Publication.RejectionReason())
}

func TestApproveIsIdempotent(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewPublicationService(propRepo, userRepo, mailer, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	first, err := svc.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)
	second, err := svc.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)

	require.Equal(t, first.Publication, second.Publication)
	// Only the transition notifies; the repeat is a no-op.
	require.Len(t, mailer.approvedEmails, 1)
}

func TestRejectRequiresReason(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	svc := NewPublicationService(propRepo, userRepo, &fakeMailer{}, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	_, err := svc.Reject(context.Background(), admin, p.ID, "   ")
	require.Error(t, err)

	got, err := propRepo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PublicationPending, got.Publication.Status)
}

func TestRejectStoresReason(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewPublicationService(propRepo, userRepo, mailer, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	got, err := svc.Reject(context.Background(), admin, p.ID, "photos missing")
	require.NoError(t, err)
	require.Equal(t, models.PublicationRejected, got.Publication.Status)
	require.Equal(t, "photos missing", got.Publication.Reason)
	require.False(t, got.Publication.Published())
	require.NotNil(t, got.Publication.Approved())
	require.False(t, *got.Publication.Approved())
	require.Len(t, mailer.rejectedEmails, 1)
}

func TestApproveLeavesRejectedAlone(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewPublicationService(propRepo, userRepo, mailer, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	_, err := svc.Reject(context.Background(), admin, p.ID, "blurry photos")
	require.NoError(t, err)

	got, err := svc.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PublicationRejected, got.Publication.Status)
	require.Equal(t, "blurry photos", got.Publication.Reason)
	require.Empty(t, mailer.approvedEmails)
}

func TestRejectLeavesPublishedAlone(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewPublicationService(propRepo, userRepo, mailer, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	_, err := svc.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)

	got, err := svc.Reject(context.Background(), admin, p.ID, "second thoughts")
	require.NoError(t, err)
	require.Equal(t, models.PublicationPublished, got.Publication.Status)
	require.Empty(t, got.Publication.RejectionReason())
	require.Empty(t, mailer.rejectedEmails)

	// Unpublish first, then the rejection takes.
	_, err = svc.Unpublish(context.Background(), admin, p.ID)
	require.NoError(t, err)
	got, err = svc.Reject(context.Background(), admin, p.ID, "second thoughts")
	require.NoError(t, err)
	require.Equal(t, models.PublicationRejected, got.Publication.Status)
	require.Equal(t, "second thoughts", got.Publication.Reason)
}

func TestUnpublishReturnsToPending(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	svc := NewPublicationService(propRepo, userRepo, &fakeMailer{}, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	_, err := svc.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)

	got, err := svc.Unpublish(context.Background(), admin, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PublicationPending, got.Publication.Status)

	// Unpublishing something not published is a harmless no-op.
	got, err = svc.Unpublish(context.Background(), admin, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PublicationPending, got.Publication.Status)
}

func TestApproveDeniedForNonAdmin(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	svc := NewPublicationService(propRepo, userRepo, &fakeMailer{}, nil)

	agent, p := seedAgentWithListing(t, propRepo, userRepo)

	_, err := svc.Approve(context.Background(), agent, p.ID)
	require.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = svc.Reject(context.Background(), auth.User{ID: uuid.New()}, p.ID, "nope")
	require.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = svc.ListPending(context.Background(), auth.Anonymous{}, 1, 10)
	require.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestAgentEditOfRejectedResubmits(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	pubSvc := NewPublicationService(propRepo, userRepo, &fakeMailer{}, nil)
	propSvc := NewPropertyService(propRepo, nil)

	agent, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	_, err := pubSvc.Reject(context.Background(), admin, p.ID, "bad description")
	require.NoError(t, err)

	title := "Sunny loft, now with balcony"
	got, err := propSvc.Update(context.Background(), agent, p.ID, dtos.UpdatePropertyRequest{Title: &title})
	require.NoError(t, err)

	require.Equal(t, models.PublicationPending, got.Publication.Status)
	require.Empty(t, got.Publication.Reason)
	require.Equal(t, title, got.Title)
}

func TestAdminEditKeepsState(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	pubSvc := NewPublicationService(propRepo, userRepo, &fakeMailer{}, nil)
	propSvc := NewPropertyService(propRepo, nil)

	_, p := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	_, err := pubSvc.Reject(context.Background(), admin, p.ID, "typo in address")
	require.NoError(t, err)

	addr := "42 Fixed Street"
	got, err := propSvc.Update(context.Background(), admin, p.ID, dtos.UpdatePropertyRequest{Address: &addr})
	require.NoError(t, err)

	// Admin housekeeping never moves the review state.
	require.Equal(t, models.PublicationRejected, got.Publication.Status)
	require.Equal(t, "typo in address", got.Publication.Reason)
	require.Equal(t, addr, got.Address)
}

func TestListPendingFiltersByState(t *testing.T) {
	propRepo := newFakePropertyRepo()
	userRepo := newFakeUserRepo()
	svc := NewPublicationService(propRepo, userRepo, &fakeMailer{}, nil)

	_, pending := seedAgentWithListing(t, propRepo, userRepo)
	admin := auth.Admin{ID: uuid.New()}

	_, other := seedAgentWithListing(t, propRepo, userRepo)
	_, err := svc.Approve(context.Background(), admin, other.ID)
	require.NoError(t, err)

	page, err := svc.ListPending(context.Background(), admin, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, pending.ID, page.Items[0].ID)
}
