package services

import (
	"testing"
	"time"

	"github.com/briefworks/rfpdb/internal/config"
)

func newTestAuth() *AuthService {
	return NewAuthService(&config.Config{
		AdminUsername: "admin",
		AdminPassword: "secret",
		JWTSecret:     "test-signing-key",
	})
}

// TestVerifyCredentials verifies the configured admin pair check
func TestVerifyCredentials(t *testing.T) {
	a := newTestAuth()

	if !a.VerifyCredentials("admin", "secret") {
		t.Error("Expected valid credentials to pass")
	}
	if a.VerifyCredentials("admin", "wrong") {
		t.Error("Expected wrong password to fail")
	}
	if a.VerifyCredentials("root", "secret") {
		t.Error("Expected wrong username to fail")
	}
}

// TestTokenRoundTrip verifies issue and validate
func TestTokenRoundTrip(t *testing.T) {
	a := newTestAuth()

	token, err := a.CreateAccessToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	subject, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if subject != "admin" {
		t.Errorf("Expected subject admin, got %q", subject)
	}
}

// TestTokenRejection verifies expired and foreign tokens fail
func TestTokenRejection(t *testing.T) {
	a := newTestAuth()

	expired, err := a.CreateAccessToken("admin", -time.Minute)
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}
	if _, err := a.ValidateToken(expired); err == nil {
		t.Error("Expected expired token to fail validation")
	}

	other := NewAuthService(&config.Config{JWTSecret: "different-key"})
	foreign, err := other.CreateAccessToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}
	if _, err := a.ValidateToken(foreign); err == nil {
		t.Error("Expected token signed with another key to fail")
	}

	if _, err := a.ValidateToken("not-a-token"); err == nil {
		t.Error("Expected garbage token to fail")
	}
}
