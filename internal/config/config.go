// config.go
//
// Land tokenization review and transaction workflow service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of landtoken.
// landtoken is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// landtoken is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with landtoken.
// If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Auth providers
const (
	AuthProviderAuthorizer = "authorizer"
	AuthProviderJWT        = "jwt"
)

// Storage backends
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	CORSOrigins string
	LogLevel    string
	LogFormat   string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Identity provider configuration
	AuthProvider  string
	AuthzURL      string
	AuthzClientID string
	JWTSecret     string

	// Document storage configuration
	StorageBackend   string
	StorageLocalDir  string
	StoragePublicURL string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string

	// Transactional email configuration
	BrevoAPIKey        string
	EmailSenderAddress string
	EmailSenderName    string
}

// Load loads configuration from environment variables.
// If ENV_FILE is set (or a .env file exists) it is loaded first; variables
// already present in the environment win.
func Load() (*Config, error) {
	if err := loadEnvFile(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:5173"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		DBType:             strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBDatabase:         getEnv("DB_DATABASE", ""),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:  getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		AuthProvider:       strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderAuthorizer)),
		AuthzURL:           getEnv("AUTHZ_URL", ""),
		AuthzClientID:      getEnv("AUTHZ_CLIENT_ID", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		StorageBackend:     strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		StorageLocalDir:    getEnv("STORAGE_LOCAL_DIR", "./uploads-data"),
		StoragePublicURL:   getEnv("STORAGE_PUBLIC_URL", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		BrevoAPIKey:        getEnv("BREVO_API_KEY", ""),
		EmailSenderAddress: getEnv("EMAIL_SENDER_ADDRESS", "nexusapp@localhost"),
		EmailSenderName:    getEnv("EMAIL_SENDER_NAME", "Nexus App"),
	}

	if cfg.StoragePublicURL == "" && cfg.StorageBackend == StorageLocal {
		cfg.StoragePublicURL = fmt.Sprintf("http://localhost:%s/files", cfg.Port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required fields are present for the selected providers
func (c *Config) Validate() error {
	if c.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	if c.DBType != "sqlite" && c.DBUser == "" {
		return fmt.Errorf("DB_USER is required for DB_TYPE %s", c.DBType)
	}

	switch c.AuthProvider {
	case AuthProviderAuthorizer:
		if c.AuthzURL == "" {
			return fmt.Errorf("AUTHZ_URL is required")
		}
		if c.AuthzClientID == "" {
			return fmt.Errorf("AUTHZ_CLIENT_ID is required")
		}
	case AuthProviderJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER: %s", c.AuthProvider)
	}

	switch c.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND: %s", c.StorageBackend)
	}

	return nil
}

// EmailEnabled reports whether a transactional email provider key is configured
func (c *Config) EmailEnabled() bool {
	return c.BrevoAPIKey != ""
}

// loadEnvFile loads a dotenv file, tolerating its absence
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
