package services

import (
	"fmt"
	"time"

	"github.com/briefworks/rfpdb/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and validates the bearer tokens used by the API.
// Credentials are the configured admin pair; there is no user store.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates an AuthService over the loaded configuration.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// VerifyCredentials checks a username/password pair against the
// configured admin credentials.
func (a *AuthService) VerifyCredentials(username, password string) bool {
	return username == a.cfg.AdminUsername && password == a.cfg.AdminPassword
}

// CreateAccessToken issues a signed JWT for the given subject.
func (a *AuthService) CreateAccessToken(subject string, expires time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expires)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.JWTSecret))
}

// ValidateToken parses and verifies a bearer token, returning its subject.
func (a *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("could not validate token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
