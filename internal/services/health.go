package services

import (
	"context"
	"fmt"

	"github.com/localnerve/landtoken/internal/config"
	"github.com/localnerve/landtoken/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Identity     string            `json:"identity"`
	Storage      string            `json:"storage,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(message string) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = message
	} else {
		r.ErrorMessage += "; " + message
	}
}

// HealthCheck checks database connectivity and, for the Authorizer provider,
// identity provider reachability. A custom S3 endpoint is probed as well.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) HealthCheckResult {
	if log == nil {
		log = zap.NewNop()
	}
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.fail(fmt.Sprintf("Database connection error: %v", err))
		log.Warn("Health check failed - database connection", zap.Error(err))
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.fail(fmt.Sprintf("Database ping failed: %v", err))
		log.Warn("Health check failed - database ping", zap.Error(err))
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	// Token signatures are checked locally for the jwt provider
	if cfg.AuthProvider != config.AuthProviderAuthorizer {
		result.Identity = "local"
	} else if err := utils.PingURL(ctx, cfg.AuthzURL); err != nil {
		result.Identity = "unreachable"
		result.Details["authorizer_error"] = err.Error()
		result.fail(fmt.Sprintf("Authorizer ping failed: %v", err))
		log.Warn("Health check failed - authorizer ping", zap.Error(err))
	} else {
		result.Identity = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	// Only a custom S3 endpoint is probed; AWS endpoints are assumed reachable
	if cfg.StorageBackend == config.StorageS3 && cfg.S3Endpoint != "" {
		if err := utils.PingURL(ctx, cfg.S3Endpoint); err != nil {
			result.Storage = "unreachable"
			result.Details["storage_error"] = err.Error()
			result.fail(fmt.Sprintf("Storage endpoint ping failed: %v", err))
			log.Warn("Health check failed - storage endpoint ping", zap.Error(err))
		} else {
			result.Storage = "ok"
		}
	}

	if result.Status == "healthy" {
		log.Debug("Health check passed - all systems operational")
	}

	return result
}
