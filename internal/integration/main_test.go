//go:build dev_test && integration

package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/openlistings/backend/internal/app"
	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/services"
	"github.com/openlistings/backend/internal/utils"
)

// Shared fixtures for every integration test in this package. These tests
// need a reachable Postgres (DB_URL) and run against real repositories, so
// they are kept behind build tags and out of the default `go test` run.
var (
	cfg *config.Config

	userRepo     repositories.UserRepository
	propertyRepo repositories.PropertyRepository
	favoriteRepo repositories.FavoriteRepository
	inquiryRepo  repositories.InquiryRepository

	propertyService    services.PropertyService
	publicationService services.PublicationService
	listingService     services.ListingService
	favoriteService    services.FavoriteService
	inquiryService     services.InquiryService
)

func TestMain(m *testing.M) {
	utils.InitLogger("openlistings-backend-integration")
	cfg = config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer application.Close()

	userRepo = repositories.NewUserRepository(application.DB)
	propertyRepo = repositories.NewPropertyRepository(application.DB)
	favoriteRepo = repositories.NewFavoriteRepository(application.DB)
	inquiryRepo = repositories.NewInquiryRepository(application.DB)

	// No SendGrid or Twilio credentials in the test environment, so the
	// mailer runs with delivery disabled.
	mailer := services.NewMailerService(cfg)

	propertyService = services.NewPropertyService(propertyRepo, nil)
	publicationService = services.NewPublicationService(propertyRepo, userRepo, mailer, nil)
	listingService = services.NewListingService(propertyRepo, nil)
	favoriteService = services.NewFavoriteService(favoriteRepo, propertyRepo)
	inquiryService = services.NewInquiryService(inquiryRepo, propertyRepo, userRepo, mailer)

	// Give the pool a moment after the retry loop settles.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.DB.Ping(ctx); err != nil {
		log.Fatal("database ping failed: ", err)
	}

	os.Exit(m.Run())
}
