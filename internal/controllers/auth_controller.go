package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/middleware"
	"github.com/openlistings/backend/internal/services"
	"github.com/openlistings/backend/internal/utils"
)

type AuthController struct {
	authService  services.AuthService
	jwtService   services.JWTService
	verification services.VerificationService
	cfg          *config.Config
}

func NewAuthController(
	authService services.AuthService,
	jwtService services.JWTService,
	verification services.VerificationService,
	cfg *config.Config,
) *AuthController {
	return &AuthController{
		authService:  authService,
		jwtService:   jwtService,
		verification: verification,
		cfg:          cfg,
	}
}

var authValidate = validator.New()

// ----------------------------------------------------------------
// POST /api/v1/auth/register
// ----------------------------------------------------------------
func (c *AuthController) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	user, err := c.authService.Register(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.RegisterResponse{
		User:    dtos.NewUserResponse(user),
		Message: "registration successful",
	})
}

// ----------------------------------------------------------------
// POST /api/v1/auth/login
// ----------------------------------------------------------------
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	user, access, refresh, err := c.authService.Login(r.Context(), req, utils.ClientIP(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	c.setAuthCookies(w, access, refresh)
	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		User:         dtos.NewUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/auth/admin/login
// ----------------------------------------------------------------
func (c *AuthController) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	user, access, refresh, err := c.authService.AdminLogin(r.Context(), req, utils.ClientIP(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	c.setAuthCookies(w, access, refresh)
	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		User:         dtos.NewUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/auth/refresh
// ----------------------------------------------------------------
func (c *AuthController) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := c.refreshTokenFromRequest(r)
	if refreshToken == "" {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing refresh token", nil)
		return
	}

	access, refresh, err := c.jwtService.RefreshToken(r.Context(), refreshToken, utils.ClientIP(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	c.setAuthCookies(w, access, refresh)
	utils.RespondWithJSON(w, http.StatusOK, dtos.RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/auth/logout
// ----------------------------------------------------------------
func (c *AuthController) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := c.refreshTokenFromRequest(r)
	if refreshToken != "" {
		if err := c.jwtService.Logout(r.Context(), refreshToken); err != nil {
			utils.HandleAppError(w, err)
			return
		}
	}

	c.clearAuthCookies(w)
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "logged out"})
}

// ----------------------------------------------------------------
// GET /api/v1/users/me
// ----------------------------------------------------------------
func (c *AuthController) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil)
		return
	}

	user, err := c.authService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserResponse(user))
}

// ----------------------------------------------------------------
// PUT /api/v1/users/me
// ----------------------------------------------------------------
func (c *AuthController) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil)
		return
	}

	var req dtos.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	user, err := c.authService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserResponse(user))
}

// ----------------------------------------------------------------
// Verification code endpoints
// ----------------------------------------------------------------

func (c *AuthController) RequestEmailCodeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil)
		return
	}
	if err := c.verification.RequestEmailCode(r.Context(), userID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "verification code sent"})
}

func (c *AuthController) RequestSMSCodeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil)
		return
	}
	if err := c.verification.RequestSMSCode(r.Context(), userID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "verification code sent"})
}

func (c *AuthController) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	c.verifyCode(w, r, c.verification.VerifyEmailCode)
}

func (c *AuthController) VerifySMSHandler(w http.ResponseWriter, r *http.Request) {
	c.verifyCode(w, r, c.verification.VerifySMSCode)
}

func (c *AuthController) verifyCode(
	w http.ResponseWriter,
	r *http.Request,
	verify func(ctx context.Context, userID uuid.UUID, code string) error,
) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil)
		return
	}

	var req dtos.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	if err := verify(r.Context(), userID, req.Code); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "verified"})
}

// ----------------------------------------------------------------
// Cookie plumbing
// ----------------------------------------------------------------

// refreshTokenFromRequest prefers the JSON body, falling back to the
// refresh cookie so browser clients need not echo the token back.
func (c *AuthController) refreshTokenFromRequest(r *http.Request) string {
	var req dtos.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := r.Cookie(middleware.RefreshTokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (c *AuthController) setAuthCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookieName,
		Value:    access,
		Path:     "/",
		MaxAge:   int(c.cfg.TokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RefreshTokenCookieName,
		Value:    refresh,
		Path:     "/",
		MaxAge:   int(c.cfg.RefreshTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c *AuthController) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookieName, middleware.RefreshTokenCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
