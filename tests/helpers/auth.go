package helpers

import (
	"testing"
	"time"

	"github.com/briefworks/rfpdb/internal/config"
	"github.com/briefworks/rfpdb/internal/services"
)

// TestConfig returns a config suitable for in-process tests
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:          "3000",
		UploadDir:     t.TempDir(),
		DBType:        "sqlite",
		DBDatabase:    ":memory:",
		AdminUsername: "admin",
		AdminPassword: "test-password",
		JWTSecret:     "test-secret",
	}
}

// AcquireToken mints a bearer token for the admin user
func AcquireToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	auth := services.NewAuthService(cfg)
	token, err := auth.CreateAccessToken(cfg.AdminUsername, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create access token: %v", err)
	}
	return token
}
