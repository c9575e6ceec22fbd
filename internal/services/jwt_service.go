package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/middleware"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// ---------------------------------------------------------------------
// JWTService interface
// ---------------------------------------------------------------------

type JWTService interface {
	GenerateAccessToken(subjectID uuid.UUID, role models.UserRole, clientIP string) (string, error)
	GenerateRefreshToken(ctx context.Context, subjectID uuid.UUID, clientIP string) (*models.RefreshToken, error)

	// RefreshToken rotates the pair: the old refresh token is removed and
	// a new access/refresh pair is issued.
	RefreshToken(ctx context.Context, refreshTokenString, clientIP string) (string, string, error)

	Logout(ctx context.Context, refreshTokenString string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type jwtService struct {
	privateKey    *rsa.PrivateKey
	tokenExpiry   time.Duration
	refreshExpiry time.Duration
	tokenRepo     repositories.TokenRepository
	userRepo      repositories.UserRepository
}

func NewJWTService(cfg *config.Config, tokenRepo repositories.TokenRepository, userRepo repositories.UserRepository) JWTService {
	return &jwtService{
		privateKey:    cfg.RSAPrivateKey,
		tokenExpiry:   cfg.TokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
		tokenRepo:     tokenRepo,
		userRepo:      userRepo,
	}
}

func (j *jwtService) GenerateAccessToken(subjectID uuid.UUID, role models.UserRole, clientIP string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  middleware.TokenIssuer,
		"sub":  subjectID.String(),
		"role": string(role),
		"exp":  now.Add(j.tokenExpiry).Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.NewString(),
	}
	if clientIP != "" {
		claims["ip"] = clientIP
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(j.privateKey)
}

func (j *jwtService) GenerateRefreshToken(ctx context.Context, subjectID uuid.UUID, clientIP string) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    subjectID,
		Token:     utils.GenerateSecureToken(64),
		ExpiresAt: time.Now().Add(j.refreshExpiry),
		CreatedAt: time.Now(),
		IPAddress: clientIP,
	}
	if err := j.tokenRepo.CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (j *jwtService) RefreshToken(ctx context.Context, refreshTokenString, clientIP string) (string, string, error) {
	oldToken, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		utils.Logger.WithError(err).Error("refresh token lookup failed")
		return "", "", utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "could not refresh session", err)
	}
	if oldToken == nil || oldToken.Revoked {
		return "", "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "invalid refresh token", nil)
	}
	if oldToken.IsExpired() {
		return "", "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeTokenExpired, "refresh token expired", nil)
	}
	if oldToken.IPAddress != "" && oldToken.IPAddress != clientIP {
		utils.Logger.WithField("user_id", oldToken.UserID).Warn("refresh token presented from a different IP")
		return "", "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "invalid refresh token", nil)
	}

	user, err := j.userRepo.GetByID(ctx, oldToken.UserID)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "invalid refresh token", nil)
	}

	if err := j.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID); err != nil {
		utils.Logger.WithError(err).Error("failed to remove rotated refresh token")
		return "", "", errors.New("failed to rotate refresh token")
	}

	newAccess, err := j.GenerateAccessToken(user.ID, user.Role, clientIP)
	if err != nil {
		return "", "", err
	}
	newRT, err := j.GenerateRefreshToken(ctx, user.ID, clientIP)
	if err != nil {
		return "", "", err
	}
	return newAccess, newRT.Token, nil
}

func (j *jwtService) Logout(ctx context.Context, refreshTokenString string) error {
	oldToken, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		utils.Logger.WithError(err).Error("logout refresh token lookup failed")
		return utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "logout failed", err)
	}
	if oldToken == nil {
		// Already gone, nothing to do.
		return nil
	}
	return j.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID)
}

func (j *jwtService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return j.tokenRepo.RemoveAllRefreshTokensByUserID(ctx, userID)
}
