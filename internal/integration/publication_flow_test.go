//go:build dev_test && integration

package integration

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

func createTestAccount(t *testing.T, ctx context.Context, prefix string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("Integration-Passw0rd!")
	require.NoError(t, err)

	u := &models.User{
		ID:            uuid.New(),
		Email:         fmt.Sprintf("%s-%s@openlistings.dev", prefix, uuid.NewString()[:8]),
		PasswordHash:  hash,
		Name:          "Integration " + prefix,
		Role:          role,
		EmailVerified: true,
	}
	require.NoError(t, userRepo.Create(ctx, u))
	return u
}

func createTestListing(t *testing.T, ctx context.Context, agent auth.Agent, title string) *models.Property {
	t.Helper()

	p, err := propertyService.Create(ctx, agent, dtos.CreatePropertyRequest{
		Title:       title,
		Description: "Full publication flow fixture with enough detail to pass validation.",
		Price:       425000,
		Type:        "house",
		Status:      "for-sale",
		Bedrooms:    3,
		Bathrooms:   2.5,
		Size:        1850,
		Address:     "12 Integration Way",
		City:        "Testville",
		State:       "TN",
		ZipCode:     "00000",
		Features:    []string{"garage"},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = propertyRepo.Delete(context.Background(), p.ID)
	})
	return p
}

func searchTitles(t *testing.T, ctx context.Context, actor auth.Actor, city string) []string {
	t.Helper()

	q := url.Values{}
	q.Set("city", city)
	q.Set("per_page", "50")
	page, err := listingService.Search(ctx, actor, q)
	require.NoError(t, err)

	titles := make([]string, 0, len(page.Properties))
	for _, p := range page.Properties {
		titles = append(titles, p.Title)
	}
	return titles
}

// Walks a listing through the whole review workflow against a real database:
// created pending, invisible to the public, approved, rejected after edit,
// and resubmitted by its owner.
func TestListingPublicationFlow(t *testing.T) {
	ctx := context.Background()

	agentAccount := createTestAccount(t, ctx, "flow-agent", models.RoleAgent)
	adminAccount := createTestAccount(t, ctx, "flow-admin", models.RoleAdmin)
	agent := auth.Agent{ID: agentAccount.ID}
	admin := auth.Admin{ID: adminAccount.ID}

	listing := createTestListing(t, ctx, agent, "Flow House "+uuid.NewString()[:8])
	require.Equal(t, models.PublicationPending, listing.Publication.Status)

	// Invisible to anonymous browsing while pending.
	require.NotContains(t, searchTitles(t, ctx, auth.Anonymous{}, "Testville"), listing.Title)

	_, err := propertyService.Get(ctx, auth.Anonymous{}, listing.ID)
	require.Error(t, err)

	// The owner still sees it.
	own, err := propertyService.ListOwn(ctx, agent)
	require.NoError(t, err)
	require.NotEmpty(t, own)

	// Approve and verify public visibility.
	approved, err := publicationService.Approve(ctx, admin, listing.ID)
	require.NoError(t, err)
	require.True(t, approved.Publication.Published())

	require.Contains(t, searchTitles(t, ctx, auth.Anonymous{}, "Testville"), listing.Title)

	got, err := propertyService.Get(ctx, auth.Anonymous{}, listing.ID)
	require.NoError(t, err)
	require.Equal(t, listing.ID, got.ID)

	// A published listing cannot be rejected outright.
	unmoved, err := publicationService.Reject(ctx, admin, listing.ID, "Photos do not match the address")
	require.NoError(t, err)
	require.True(t, unmoved.Publication.Published())

	// Pull it back to review first, then reject with a reason. The
	// owner's edit afterwards resubmits.
	_, err = publicationService.Unpublish(ctx, admin, listing.ID)
	require.NoError(t, err)
	rejected, err := publicationService.Reject(ctx, admin, listing.ID, "Photos do not match the address")
	require.NoError(t, err)
	require.Equal(t, "Photos do not match the address", rejected.Publication.RejectionReason())

	require.NotContains(t, searchTitles(t, ctx, auth.Anonymous{}, "Testville"), listing.Title)

	newTitle := "Flow House Revised " + uuid.NewString()[:8]
	edited, err := propertyService.Update(ctx, agent, listing.ID, dtos.UpdatePropertyRequest{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, models.PublicationPending, edited.Publication.Status)
	require.Empty(t, edited.Publication.RejectionReason())
}

func TestFavoritesAndInquiriesFollowPublication(t *testing.T) {
	ctx := context.Background()

	agentAccount := createTestAccount(t, ctx, "fav-agent", models.RoleAgent)
	adminAccount := createTestAccount(t, ctx, "fav-admin", models.RoleAdmin)
	buyerAccount := createTestAccount(t, ctx, "fav-buyer", models.RoleUser)
	agent := auth.Agent{ID: agentAccount.ID}
	admin := auth.Admin{ID: adminAccount.ID}
	buyer := auth.User{ID: buyerAccount.ID}

	listing := createTestListing(t, ctx, agent, "Fav House "+uuid.NewString()[:8])

	// Neither favorites nor inquiries work against a pending listing.
	require.Error(t, favoriteService.Add(ctx, buyer, listing.ID))
	_, err := inquiryService.Create(ctx, buyer, dtos.CreateInquiryRequest{
		PropertyID: listing.ID,
		Message:    "Is this still available?",
	})
	require.Error(t, err)

	_, err = publicationService.Approve(ctx, admin, listing.ID)
	require.NoError(t, err)

	require.NoError(t, favoriteService.Add(ctx, buyer, listing.ID))
	ids, err := favoriteService.IDs(ctx, buyer)
	require.NoError(t, err)
	require.Contains(t, ids, listing.ID)

	inquiry, err := inquiryService.Create(ctx, buyer, dtos.CreateInquiryRequest{
		PropertyID: listing.ID,
		Message:    "Is this still available?",
	})
	require.NoError(t, err)
	require.Equal(t, models.InquiryPending, inquiry.Status)

	mine, err := inquiryService.ListOwn(ctx, buyer)
	require.NoError(t, err)
	require.NotEmpty(t, mine)

	// Unpublishing hides the listing from the favorites view again.
	_, err = publicationService.Unpublish(ctx, admin, listing.ID)
	require.NoError(t, err)

	saved, err := favoriteService.List(ctx, buyer, "")
	require.NoError(t, err)
	for _, p := range saved {
		require.NotEqual(t, listing.ID, p.ID)
	}
}
