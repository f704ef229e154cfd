// main.go
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
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/landtoken/internal/config"
	"github.com/localnerve/landtoken/internal/database"
	"github.com/localnerve/landtoken/internal/handlers"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/storage"
	"github.com/localnerve/landtoken/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/localnerve/landtoken/docs/api" // Swagger docs
)

// @title Landtoken API
// @version 1.0.0
// @description Property tokenization review and transaction workflow service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/landtoken
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	verifier, err := newVerifier(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize identity provider", zap.Error(err))
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}

	var mailer services.Mailer
	if m := services.NewBrevoMailer(cfg.BrevoAPIKey, cfg.EmailSenderAddress, cfg.EmailSenderName); m != nil {
		mailer = m
	} else {
		log.Warn("BREVO_API_KEY not set, transactional email disabled")
	}

	router := newRouter(cfg, db, verifier, uploader, mailer, log)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    32 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("landtoken")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Locally stored documents are served from their public URL
	if cfg.StorageBackend == config.StorageLocal {
		app.Static("/files", cfg.StorageLocalDir)
	}

	router.Register(app)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}

	log.Info("Server stopped")
}

// newVerifier selects the bearer token verifier for AUTH_PROVIDER
func newVerifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.TokenVerifier, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderJWT:
		log.Info("Verifying HS256 bearer tokens locally")
		return &services.JWTVerifier{Secret: []byte(cfg.JWTSecret)}, nil
	default:
		return services.NewAuthorizerVerifier(ctx, cfg, log)
	}
}

// newUploader selects the document storage backend for STORAGE_BACKEND
func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, error) {
	if cfg.StorageBackend == config.StorageS3 {
		return storage.NewS3Bucket(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.StoragePublicURL)
	}
	return storage.NewLocalDir(cfg.StorageLocalDir, cfg.StoragePublicURL)
}

// newRouter wires the services into the HTTP handlers
func newRouter(cfg *config.Config, db *gorm.DB, verifier services.TokenVerifier, uploader storage.Uploader, mailer services.Mailer, log *zap.Logger) *handlers.Router {
	gate := &services.IdentityGate{Verifier: verifier, DB: db}
	notifier := services.NewNotifier(db, mailer, log)
	reviews := services.NewReviewService(db, notifier, log)
	submissions := services.NewSubmissionService(db, uploader, notifier, log)
	transactions := services.NewTransactionService(db, uploader, notifier, log)

	return &handlers.Router{
		Gate:          gate,
		Properties:    &handlers.PropertyHandler{Submissions: submissions, Reviews: reviews},
		Applications:  &handlers.ApplicationHandler{Submissions: submissions, Reviews: reviews},
		Transactions:  &handlers.TransactionHandler{Transactions: transactions, Gate: gate},
		Notifications: &handlers.NotificationHandler{Notifier: notifier},
		Health:        &handlers.HealthHandler{Config: cfg, DB: db, Logger: log},
	}
}
