package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/twilio/twilio-go"

	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// ---------------------------------------------------------------------
// AuthService interface
// ---------------------------------------------------------------------

type AuthService interface {
	Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error)

	// Login authenticates with email+password and applies the failed-login
	// lockout policy. Returns the user plus a fresh token pair.
	Login(ctx context.Context, req dtos.LoginRequest, clientIP string) (*models.User, string, string, error)

	// AdminLogin additionally requires a valid TOTP code.
	AdminLogin(ctx context.Context, req dtos.AdminLoginRequest, clientIP string) (*models.User, string, string, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dtos.UpdateProfileRequest) (*models.User, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type authService struct {
	cfg          *config.Config
	userRepo     repositories.UserRepository
	jwtService   JWTService
	verification VerificationService
	twilioClient *twilio.RestClient
}

func NewAuthService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	jwtService JWTService,
	verification VerificationService,
) AuthService {
	var twilioClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" {
		twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return &authService{
		cfg:          cfg,
		userRepo:     userRepo,
		jwtService:   jwtService,
		verification: verification,
		twilioClient: twilioClient,
	}
}

func (s *authService) Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error) {
	role, err := models.ParseUserRole(req.Role)
	if err != nil || role == models.RoleAdmin {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "role must be user or agent", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ok, err := utils.ValidateEmail(ctx, s.cfg.SendGridAPIKey, email, s.cfg.LDFlag_ValidateEmailWithSendGrid)
	if err != nil {
		utils.Logger.WithError(err).Warn("email validation errored; rejecting registration")
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeInternal, "could not validate email", err)
	}
	if !ok {
		return nil, utils.ErrInvalidEmail
	}

	if req.Phone != nil && *req.Phone != "" {
		ok, err := utils.ValidatePhoneNumber(ctx, *req.Phone, s.cfg.LDFlag_ValidatePhoneWithTwilio, s.twilioClient)
		if err != nil {
			utils.Logger.WithError(err).Warn("phone validation errored; rejecting registration")
			return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeInternal, "could not validate phone number", err)
		}
		if !ok {
			return nil, utils.ErrInvalidPhone
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrEmailExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Agents must verify contact details before their listings go anywhere,
	// so kick off the email code right away. Delivery failure is not fatal
	// to registration; the code can be re-requested.
	if role == models.RoleAgent {
		if err := s.verification.RequestEmailCode(ctx, user.ID); err != nil {
			utils.Logger.WithError(err).Warn("could not send initial verification email")
		}
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req dtos.LoginRequest, clientIP string) (*models.User, string, string, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", "", err
	}
	return s.issueTokens(ctx, user, clientIP)
}

func (s *authService) AdminLogin(ctx context.Context, req dtos.AdminLoginRequest, clientIP string) (*models.User, string, string, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", "", err
	}
	if user.Role != models.RoleAdmin {
		return nil, "", "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "invalid email or password", nil)
	}
	if user.TOTPSecret == "" || !totp.Validate(req.TOTPCode, user.TOTPSecret) {
		s.recordFailure(ctx, user)
		return nil, "", "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidTotp, "invalid TOTP code", nil)
	}
	return s.issueTokens(ctx, user, clientIP)
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "user not found", nil)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dtos.UpdateProfileRequest) (*models.User, error) {
	if req.Phone != nil && *req.Phone != "" {
		ok, err := utils.ValidatePhoneNumber(ctx, *req.Phone, s.cfg.LDFlag_ValidatePhoneWithTwilio, s.twilioClient)
		if err != nil {
			return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeInternal, "could not validate phone number", err)
		}
		if !ok {
			return nil, utils.ErrInvalidPhone
		}
	}

	err := s.userRepo.UpdateWithRetry(ctx, userID, func(u *models.User) error {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Phone != nil {
			u.Phone = req.Phone
			// A new number has to be re-verified.
			u.PhoneVerified = false
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// dummyHash keeps the unknown-email path doing a real bcrypt compare.
const dummyHash = "$2a$14$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// authenticate checks credentials and drives the lockout counters.
func (s *authService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a hash compare so missing and wrong-password take similar time.
		_ = utils.CheckPasswordHash(password, dummyHash)
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "invalid email or password", nil)
	}

	if user.IsLocked() {
		return nil, utils.NewAppError(http.StatusForbidden, utils.ErrCodeLockedAccount, "account temporarily locked, try again later", nil)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.recordFailure(ctx, user)
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "invalid email or password", nil)
	}

	if user.FailedLoginAttempts > 0 {
		if err := s.userRepo.ResetFailedLogins(ctx, user.ID); err != nil {
			utils.Logger.WithError(err).Warn("could not reset failed login counter")
		}
	}
	return user, nil
}

func (s *authService) recordFailure(ctx context.Context, user *models.User) {
	var lockedUntil *time.Time
	if user.FailedLoginAttempts+1 >= s.cfg.MaxLoginAttempts {
		t := time.Now().Add(s.cfg.LockDuration)
		lockedUntil = &t
	}
	if err := s.userRepo.RecordFailedLogin(ctx, user.ID, lockedUntil); err != nil {
		utils.Logger.WithError(err).Warn("could not record failed login")
	}
	if lockedUntil != nil {
		utils.Logger.WithField("user_id", user.ID).Warn("account locked after repeated failed logins")
	}
}

func (s *authService) issueTokens(ctx context.Context, user *models.User, clientIP string) (*models.User, string, string, error) {
	access, err := s.jwtService.GenerateAccessToken(user.ID, user.Role, clientIP)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(ctx, user.ID, clientIP)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh.Token, nil
}
