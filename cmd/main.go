package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/openlistings/backend/internal/app"
	"github.com/openlistings/backend/internal/cache"
	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/controllers"
	"github.com/openlistings/backend/internal/middleware"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/routes"
	"github.com/openlistings/backend/internal/services"
	"github.com/openlistings/backend/internal/storage"
	"github.com/openlistings/backend/internal/utils"
)

func main() {
	utils.InitLogger("openlistings-backend")
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	listingCache := cache.New(cfg.RedisAddr, cfg.RedisPass)

	imageStore, err := storage.NewDiskImageStore(cfg.UploadDir, cfg.UploadBase)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize image storage:", err)
	}

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	tokenRepo := repositories.NewTokenRepository(application.DB)
	propertyRepo := repositories.NewPropertyRepository(application.DB)
	inquiryRepo := repositories.NewInquiryRepository(application.DB)
	favoriteRepo := repositories.NewFavoriteRepository(application.DB)
	verificationRepo := repositories.NewVerificationRepository(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	mailerService := services.NewMailerService(cfg)
	jwtService := services.NewJWTService(cfg, tokenRepo, userRepo)
	verificationService := services.NewVerificationService(cfg, userRepo, verificationRepo, mailerService)
	authService := services.NewAuthService(cfg, userRepo, jwtService, verificationService)
	propertyService := services.NewPropertyService(propertyRepo, listingCache)
	listingService := services.NewListingService(propertyRepo, listingCache)
	publicationService := services.NewPublicationService(propertyRepo, userRepo, mailerService, listingCache)
	inquiryService := services.NewInquiryService(inquiryRepo, propertyRepo, userRepo, mailerService)
	favoriteService := services.NewFavoriteService(favoriteRepo, propertyRepo)
	dashboardService := services.NewDashboardService(propertyRepo, userRepo, inquiryRepo)
	cleanupService := services.NewCleanupService(tokenRepo, verificationRepo)

	//----------------------------------------------------------------------
	// Seeding
	//----------------------------------------------------------------------
	if err := app.SeedAdmin(context.Background(), cfg, userRepo); err != nil {
		utils.Logger.Fatal("Failed to seed admin account:", err)
	}
	if err := app.SeedDemoData(context.Background(), cfg, userRepo, propertyRepo); err != nil {
		utils.Logger.WithError(err).Error("Failed to seed demo data")
	}

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	healthController := controllers.NewHealthController()
	authController := controllers.NewAuthController(authService, jwtService, verificationService, cfg)
	propertyController := controllers.NewPropertyController(propertyService, listingService)
	adminController := controllers.NewAdminController(publicationService, propertyService, dashboardService)
	inquiryController := controllers.NewInquiryController(inquiryService)
	favoriteController := controllers.NewFavoriteController(favoriteService)
	uploadController := controllers.NewUploadController(imageStore)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods("GET")

	// Public auth endpoints
	router.HandleFunc(routes.AuthRegister, authController.RegisterHandler).Methods("POST")
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods("POST")
	router.HandleFunc(routes.AuthAdminLogin, authController.AdminLoginHandler).Methods("POST")
	router.HandleFunc(routes.AuthRefresh, authController.RefreshHandler).Methods("POST")
	router.HandleFunc(routes.AuthLogout, authController.LogoutHandler).Methods("POST")

	// Agent endpoints (agents and admins). Registered ahead of the public
	// browse routes so GET /properties/my is not swallowed by /properties/{id}.
	agent := router.NewRoute().Subrouter()
	agent.Use(middleware.AgentAuthMiddleware(cfg.RSAPublicKey))
	agent.HandleFunc(routes.Properties, propertyController.CreateHandler).Methods("POST")
	agent.HandleFunc(routes.PropertiesMy, propertyController.ListMyHandler).Methods("GET")
	agent.HandleFunc(routes.PropertyByID, propertyController.UpdateHandler).Methods("PUT")
	agent.HandleFunc(routes.PropertyByID, propertyController.DeleteHandler).Methods("DELETE")
	agent.HandleFunc(routes.UploadImages, uploadController.UploadImageHandler).Methods("POST")
	agent.HandleFunc(routes.UploadImageByID, uploadController.DeleteImageHandler).Methods("DELETE")

	// Public browse, with optional identity so owners and admins see more.
	browse := router.NewRoute().Subrouter()
	browse.Use(middleware.OptionalAuthMiddleware(cfg.RSAPublicKey))
	browse.HandleFunc(routes.Properties, propertyController.SearchHandler).Methods("GET")
	browse.HandleFunc(routes.PropertiesFeatured, propertyController.FeaturedHandler).Methods("GET")
	browse.HandleFunc(routes.PropertyByID, propertyController.GetHandler).Methods("GET")

	// Authenticated endpoints (any role)
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))
	secured.HandleFunc(routes.UsersMe, authController.MeHandler).Methods("GET")
	secured.HandleFunc(routes.UsersMe, authController.UpdateMeHandler).Methods("PUT")
	secured.HandleFunc(routes.VerifyEmailRequest, authController.RequestEmailCodeHandler).Methods("POST")
	secured.HandleFunc(routes.VerifyEmail, authController.VerifyEmailHandler).Methods("POST")
	secured.HandleFunc(routes.VerifySMSRequest, authController.RequestSMSCodeHandler).Methods("POST")
	secured.HandleFunc(routes.VerifySMS, authController.VerifySMSHandler).Methods("POST")
	secured.HandleFunc(routes.Favorites, favoriteController.ListHandler).Methods("GET")
	secured.HandleFunc(routes.FavoriteIDs, favoriteController.ListIDsHandler).Methods("GET")
	secured.HandleFunc(routes.FavoriteByID, favoriteController.AddHandler).Methods("POST")
	secured.HandleFunc(routes.FavoriteByID, favoriteController.RemoveHandler).Methods("DELETE")
	secured.HandleFunc(routes.Inquiries, inquiryController.CreateHandler).Methods("POST")
	secured.HandleFunc(routes.InquiriesMy, inquiryController.ListMyHandler).Methods("GET")
	secured.HandleFunc(routes.InquiryByID, inquiryController.DeleteHandler).Methods("DELETE")

	// Admin endpoints
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AdminAuthMiddleware(cfg.RSAPublicKey))
	admin.HandleFunc(routes.AdminProperties, adminController.ListAllHandler).Methods("GET")
	admin.HandleFunc(routes.AdminPropertiesPending, adminController.ListPendingHandler).Methods("GET")
	admin.HandleFunc(routes.AdminApproveProperty, adminController.ApproveHandler).Methods("POST")
	admin.HandleFunc(routes.AdminRejectProperty, adminController.RejectHandler).Methods("POST")
	admin.HandleFunc(routes.AdminUnpublishProperty, adminController.UnpublishHandler).Methods("POST")
	admin.HandleFunc(routes.AdminFeatureProperty, adminController.FeatureHandler).Methods("POST")
	admin.HandleFunc(routes.AdminUnfeatureProperty, adminController.UnfeatureHandler).Methods("POST")
	admin.HandleFunc(routes.AdminInquiries, inquiryController.ListAllHandler).Methods("GET")
	admin.HandleFunc(routes.AdminInquiryStatus, inquiryController.UpdateStatusHandler).Methods("PUT")
	admin.HandleFunc(routes.AdminDashboard, adminController.DashboardHandler).Methods("GET")

	// Uploaded images are served straight off disk.
	router.PathPrefix(routes.StaticUploads).Handler(
		http.StripPrefix(routes.StaticUploads, http.FileServer(http.Dir(imageStore.Dir()))),
	)

	//----------------------------------------------------------------------
	// Nightly cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() {
		if e := cleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled cleanup failed")
		}
	}); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule cleanup job")
	}
	c.Start()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}
	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
