package services_test

import (
	"context"
	"net"
	"testing"

	"github.com/localnerve/landtoken/internal/config"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckLocalIdentity(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{DBType: "sqlite", DBDatabase: ":memory:", AuthProvider: config.AuthProviderJWT}

	result := services.HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "local", result.Identity)
	assert.Equal(t, "sqlite", result.Details["database_type"])
	assert.Empty(t, result.ErrorMessage)
}

func TestHealthCheckAuthorizer(t *testing.T) {
	db := setupTestDB(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	cfg := &config.Config{DBType: "sqlite", AuthProvider: config.AuthProviderAuthorizer, AuthzURL: "http://" + addr}
	result := services.HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Identity)

	require.NoError(t, ln.Close())
	result = services.HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Identity)
	assert.Contains(t, result.ErrorMessage, "Authorizer ping failed")
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cfg := &config.Config{DBType: "sqlite", AuthProvider: config.AuthProviderJWT}
	result := services.HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Database)
	assert.Contains(t, result.ErrorMessage, "Database ping failed")
}

func TestHealthCheckStorageEndpoint(t *testing.T) {
	db := setupTestDB(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	endpoint := "http://" + ln.Addr().String()

	cfg := &config.Config{DBType: "sqlite", AuthProvider: config.AuthProviderJWT, StorageBackend: config.StorageS3, S3Endpoint: endpoint}
	result := services.HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Storage)

	require.NoError(t, ln.Close())
	result = services.HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Storage)
	assert.Contains(t, result.ErrorMessage, "Storage endpoint ping failed")

	cfg.StorageBackend = config.StorageLocal
	result = services.HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "healthy", result.Status)
	assert.Empty(t, result.Storage)
}
