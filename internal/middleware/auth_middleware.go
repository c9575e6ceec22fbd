package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID = contextKey("userID")
	ContextKeyRole   = contextKey("role")

	// Cookie names follow the __Host- prefix rule (no Domain attribute allowed)
	AccessTokenCookieName  = "__Host-accessToken"
	RefreshTokenCookieName = "auth_refreshToken"
)

// AuthMiddleware protects endpoints that require any authenticated account.
// The JWT is read from the access cookie or from Authorization: Bearer.
func AuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return requireAuth(pub, nil)
}

// AgentAuthMiddleware admits agents and admins only.
func AgentAuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return requireAuth(pub, func(role models.UserRole) bool {
		return role == models.RoleAgent || role == models.RoleAdmin
	})
}

// AdminAuthMiddleware admits admins only.
func AdminAuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return requireAuth(pub, func(role models.UserRole) bool {
		return role == models.RoleAdmin
	})
}

func requireAuth(pub *rsa.PublicKey, roleOK func(models.UserRole) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			sub, role, vErr := validateAndExtract(tokenStr, pub, utils.ClientIP(r))
			if vErr != nil {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
				)
				return
			}

			if roleOK != nil && !roleOK(role) {
				utils.RespondErrorWithCode(
					w, http.StatusForbidden, utils.ErrCodeUnauthorized, "Insufficient permissions", nil,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, sub)
			ctx = context.WithValue(ctx, ContextKeyRole, string(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware is identical to AuthMiddleware except that it lets
// the request through if *no* token is present. Used on public listing reads
// so owners can preview their own unpublished properties.
func OptionalAuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, _ := extractAccessToken(r) // ignore error here
			if tokenStr == "" {
				next.ServeHTTP(w, r) // unauthenticated is fine here
				return
			}

			sub, role, vErr := validateAndExtract(tokenStr, pub, utils.ClientIP(r))
			if vErr != nil {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, sub)
			ctx = context.WithValue(ctx, ContextKeyRole, string(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateAndExtract(tokenStr string, pub *rsa.PublicKey, clientIP string) (string, models.UserRole, error) {
	tok, err := ValidateToken(tokenStr, pub, clientIP)
	if err != nil {
		return "", "", err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", "", errors.New("missing subject")
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", "", errors.New("missing role claim")
	}
	role, err := models.ParseUserRole(roleStr)
	if err != nil {
		return "", "", err
	}
	return sub, role, nil
}

// helper: read the token from the cookie, falling back to Bearer.
func extractAccessToken(r *http.Request) (string, error) {
	if c, err := r.Cookie(AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing access token")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}
