package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"coursa/internal/config"
	"coursa/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes and issuer are env-tunable so staging can shorten
// them without a rebuild.
func accessTokenTTL() time.Duration {
	return time.Duration(config.GetIntEnv("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute
}

func refreshTokenTTL() time.Duration {
	return time.Duration(config.GetIntEnv("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour
}

func tokenIssuer() string {
	return config.GetEnv("JWT_ISSUER", "coursa-api")
}

// GenerateTokens generates an access token and a refresh token for the given user claims.
// The JWT secret is expected to be set in the environment variable JWT_SECRET.
func GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", "", errors.New("JWT_SECRET not configured")
	}

	now := time.Now()
	issuer := tokenIssuer()
	subject := strconv.FormatUint(uint64(claims.UserID), 10)

	accessClaims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		Permissions:  claims.Permissions,
		TokenVersion: claims.TokenVersion,
	}
	accessJwt := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessToken, err = accessJwt.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", "", err
	}

	// Refresh tokens carry no permissions; they are re-derived from the
	// user's role on refresh.
	refreshClaims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenTTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
	}
	refreshJwt := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshToken, err = refreshJwt.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ParseToken parses and validates a JWT token string.
// It returns the token if valid, or an error if something is wrong.
func ParseToken(tokenStr string) (*jwt.Token, *models.UserClaims, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}

	return token, claims, nil
}
