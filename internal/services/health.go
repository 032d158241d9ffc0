package services

import (
	"fmt"
	"log"
	"time"

	"github.com/briefworks/rfpdb/internal/config"
	"github.com/briefworks/rfpdb/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Oracle       string            `json:"oracle"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Check oracle endpoint reachability (TCP only; no completion is run)
	if err := utils.PingService(cfg.OracleBaseURL, 5*time.Second); err != nil {
		result.Status = "unhealthy"
		result.Oracle = "unreachable"
		result.Details["oracle_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Oracle ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; Oracle ping failed: %v", err)
		}
		log.Printf("Health check failed - oracle ping: %v", err)
	} else {
		result.Oracle = "ok"
		result.Details["oracle_base_url"] = cfg.OracleBaseURL
		result.Details["oracle_model"] = cfg.OracleModel
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
