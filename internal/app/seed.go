package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// SeedAdmin bootstraps the first admin account from the environment.
// Admins cannot self-register, so a fresh deployment needs this to have a
// moderator at all. Idempotent: an existing account is left untouched.
func SeedAdmin(ctx context.Context, cfg *config.Config, userRepo repositories.UserRepository) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		utils.Logger.Debug("SEED_ADMIN_EMAIL not set; skipping admin bootstrap")
		return nil
	}

	existing, err := userRepo.GetByEmail(ctx, cfg.SeedAdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      utils.OrganizationName,
		AccountName: cfg.SeedAdminEmail,
	})
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:            uuid.New(),
		Email:         cfg.SeedAdminEmail,
		PasswordHash:  hash,
		Name:          "Administrator",
		Role:          models.RoleAdmin,
		EmailVerified: true,
		TOTPSecret:    key.Secret(),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	// Printed once so the operator can enroll their authenticator; the
	// secret is otherwise only stored server-side.
	utils.Logger.Infof("Seeded admin %s; TOTP secret: %s", admin.Email, key.Secret())
	return nil
}

// SeedDemoData loads a couple of published listings so a fresh local
// environment has something to browse. Guarded by SEED_DEMO_DATA.
func SeedDemoData(
	ctx context.Context,
	cfg *config.Config,
	userRepo repositories.UserRepository,
	propertyRepo repositories.PropertyRepository,
) error {
	if !cfg.SeedDemoData {
		return nil
	}

	const demoAgentEmail = "demo-agent@openlistings.local"
	if existing, err := userRepo.GetByEmail(ctx, demoAgentEmail); err != nil {
		return err
	} else if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(utils.GenerateSecureToken(24))
	if err != nil {
		return err
	}

	agent := &models.User{
		ID:            uuid.New(),
		Email:         demoAgentEmail,
		PasswordHash:  hash,
		Name:          "Demo Agent",
		Role:          models.RoleAgent,
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := userRepo.Create(ctx, agent); err != nil {
		return err
	}

	demos := []*models.Property{
		{
			ID:          uuid.New(),
			OwnerID:     agent.ID,
			Title:       "Sunny two-bedroom near the river",
			Description: "Bright corner unit with hardwood floors, a renovated kitchen, and a balcony over the river walk.",
			Price:       425000,
			Type:        "apartment",
			Status:      models.StatusForSale,
			Bedrooms:    2,
			Bathrooms:   1,
			Size:        82,
			Address:     "18 Riverside Ave",
			City:        "Springfield",
			State:       "IL",
			ZipCode:     "62704",
			Features:    []string{"balcony", "hardwood floors", "dishwasher"},
			Featured:    true,
			Publication: models.PublishedPublication(),
		},
		{
			ID:          uuid.New(),
			OwnerID:     agent.ID,
			Title:       "Quiet studio close to campus",
			Description: "Compact studio on a tree-lined street, ten minutes from the university by bike.",
			Price:       1150,
			Type:        "studio",
			Status:      models.StatusForRent,
			Bedrooms:    0,
			Bathrooms:   1,
			Size:        34,
			Address:     "7 College Row",
			City:        "Springfield",
			State:       "IL",
			ZipCode:     "62702",
			Features:    []string{"laundry in building"},
			Publication: models.PublishedPublication(),
		},
	}
	for _, p := range demos {
		if err := propertyRepo.Create(ctx, p); err != nil {
			return err
		}
	}

	utils.Logger.Infof("Seeded demo agent and %d demo listings", len(demos))
	return nil
}
