package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

func seedVerifiedUser(t *testing.T, users *fakeUserRepo) *models.User {
	t.Helper()
	u := &models.User{
		ID:            uuid.New(),
		Email:         "buyer@example.com",
		PasswordHash:  "irrelevant",
		Name:          "Buyer",
		Phone:         utils.Ptr("+15551234567"),
		Role:          models.RoleUser,
		EmailVerified: true,
		PhoneVerified: true,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUpdateProfilePhoneResetsVerification(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	u := seedVerifiedUser(t, users)

	svc := NewAuthService(&config.Config{}, users, nil, nil)

	got, err := svc.UpdateProfile(ctx, u.ID, dtos.UpdateProfileRequest{
		Phone: utils.Ptr("+15559876543"),
	})
	require.NoError(t, err)
	require.NotNil(t, got.Phone)
	require.Equal(t, "+15559876543", *got.Phone)
	require.False(t, got.PhoneVerified)

	// The response DTO carries the optional phone through as-is.
	resp := dtos.NewUserResponse(got)
	require.NotNil(t, resp.Phone)
	require.Equal(t, "+15559876543", *resp.Phone)
}

func TestUpdateProfileRejectsMalformedPhone(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	u := seedVerifiedUser(t, users)

	svc := NewAuthService(&config.Config{}, users, nil, nil)

	_, err := svc.UpdateProfile(ctx, u.ID, dtos.UpdateProfileRequest{
		Phone: utils.Ptr("not-a-number"),
	})
	require.ErrorIs(t, err, utils.ErrInvalidPhone)

	// The stored account is untouched.
	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, stored.PhoneVerified)
	require.Equal(t, "+15551234567", *stored.Phone)
}

func TestUpdateProfileNameOnlyKeepsPhoneVerified(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	u := seedVerifiedUser(t, users)

	svc := NewAuthService(&config.Config{}, users, nil, nil)

	got, err := svc.UpdateProfile(ctx, u.ID, dtos.UpdateProfileRequest{
		Name: utils.Ptr("Renamed Buyer"),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed Buyer", got.Name)
	require.True(t, got.PhoneVerified)
	require.NotNil(t, got.Phone)
	require.Equal(t, "+15551234567", *got.Phone)
}
