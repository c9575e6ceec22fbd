package middleware

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer identifies this service in every access/refresh token.
const TokenIssuer = "OpenListings"

// ValidateToken checks the token's signature, standard claims and the IP
// binding. Any deviation returns a descriptive error.
func ValidateToken(
	tokenString string,
	publicKey *rsa.PublicKey,
	clientIP string,
) (*jwt.Token, error) {

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	ipClaim, hasIP := claims["ip"].(string)
	if !hasIP {
		return nil, errors.New("missing IP claim in token")
	}
	if ipClaim != clientIP {
		return nil, errors.New("IP address mismatch")
	}

	return token, nil
}
