package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/landtoken/internal/middleware"
	"github.com/localnerve/landtoken/internal/services"
)

// Router holds the handlers mounted by Register
type Router struct {
	Gate          *services.IdentityGate
	Properties    *PropertyHandler
	Applications  *ApplicationHandler
	Transactions  *TransactionHandler
	Notifications *NotificationHandler
	Health        *HealthHandler
}

// Register mounts every route on app
func (r *Router) Register(app fiber.Router) {
	if r.Health != nil {
		app.Get("/health", r.Health.Health)
	}

	authed := middleware.Authenticate(r.Gate)
	admin := middleware.RequireAdmin(r.Gate)
	broker := middleware.RequireAdvocateOrAdmin(r.Gate)

	// Any authenticated user
	app.Post("/submit-advocate-application", authed, r.Applications.SubmitApplication)
	app.Post("/add-property", authed, r.Properties.AddProperty)
	app.Post("/verify-documents", authed, r.Transactions.VerifyDocuments)
	app.Get("/transactions/:id", authed, r.Transactions.GetTransaction)
	app.Get("/notifications", authed, r.Notifications.ListNotifications)

	// Admin
	app.Post("/review-property", authed, admin, r.Properties.ReviewProperty)
	app.Post("/confirm-property-mint", authed, admin, r.Properties.ConfirmMint)
	app.Post("/claim-property", authed, admin, r.Properties.ClaimProperty)
	app.Post("/review-advocate-application", authed, admin, r.Applications.ReviewApplication)
	app.Post("/claim-advocate-application", authed, admin, r.Applications.ClaimApplication)
	app.Post("/admin-review-transaction", authed, admin, r.Transactions.AdminReview)
	app.Post("/finalize-transaction", authed, admin, r.Transactions.Finalize)
	app.Post("/claim-transaction", authed, admin, r.Transactions.Claim)
	app.Get("/admin/transactions", authed, admin, r.Transactions.AdminQueue)

	// Advocate or admin
	app.Post("/get-transaction-prereqs", authed, broker, r.Transactions.GetPrereqs)
	app.Post("/create-transaction", authed, broker, r.Transactions.CreateTransaction)
	app.Post("/advocate-upload-docs", authed, broker, r.Transactions.UploadDocuments)
	app.Post("/record-transaction-onchain", authed, broker, r.Transactions.RecordOnChain)
}
