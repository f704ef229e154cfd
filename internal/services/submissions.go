package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/storage"
	"github.com/localnerve/landtoken/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileInput is one uploaded file from a multipart form
type FileInput struct {
	Field       string
	Filename    string
	ContentType string
	Body        io.Reader
}

// SubmissionService stores new property and advocate applications
type SubmissionService struct {
	DB       *gorm.DB
	Uploader storage.Uploader
	Notifier *Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewSubmissionService creates the submission service
func NewSubmissionService(db *gorm.DB, uploader storage.Uploader, notifier *Notifier, log *zap.Logger) *SubmissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmissionService{
		DB:       db,
		Uploader: uploader,
		Notifier: notifier,
		Logger:   log.With(zap.String("service", "submissions")),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// uploadFiles stores each present file under its purpose and returns urls by form field
func (s *SubmissionService) uploadFiles(ctx context.Context, uid string, purposes map[string]string, files []FileInput) (models.FileURLs, error) {
	urls := models.FileURLs{}
	for _, f := range files {
		purpose, ok := purposes[f.Field]
		if !ok || f.Body == nil {
			continue
		}
		key := storage.UserUploadKey(uid, purpose, f.Filename)
		url, err := s.Uploader.Upload(ctx, key, f.ContentType, f.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", f.Field, err)
		}
		urls[f.Field] = url
	}
	return urls, nil
}

// Upload purposes by form field
var (
	propertyFilePurposes = map[string]string{
		"titleDeedFile": "property-title-deed",
		"surveyMapFile": "property-survey-map",
	}
	advocateFilePurposes = map[string]string{
		"cert-file":          "advocate-practicing-cert",
		"lsk-id-file":        "advocate-lsk-id",
		"national-id-file":   "advocate-national-id",
		"profile-photo-file": "advocate-profile-photo",
	}
)

// PropertySubmission is a new property application
type PropertySubmission struct {
	ParcelNumber string
	Location     string
	Files        []FileInput
}

// AddProperty stores a pending property owned by uid and returns its key.
// The owner must have a profile (404) with a wallet address (400).
func (s *SubmissionService) AddProperty(ctx context.Context, uid string, in PropertySubmission) (string, error) {
	owner, err := loadUser(ctx, s.DB, uid)
	if err != nil {
		return "", err
	}
	if owner == nil {
		return "", types.NewProfileNotFound(http.StatusNotFound, "User profile not found")
	}
	if !owner.HasWallet() {
		return "", types.NewMissingWallet("User wallet address not found. Please update your profile.")
	}
	if in.ParcelNumber == "" {
		return "", types.NewValidation("Missing parcelNumber")
	}

	urls, err := s.uploadFiles(ctx, uid, propertyFilePurposes, in.Files)
	if err != nil {
		return "", err
	}

	prop := models.PendingProperty{PropertyRecord: models.PropertyRecord{
		ID:                 newKey(),
		UID:                uid,
		OwnerWalletAddress: *owner.WalletAddress,
		ParcelNumber:       in.ParcelNumber,
		Location:           in.Location,
		FileURLs:           urls,
		Status:             models.PropertyStatusPending,
		SubmittedAt:        s.Now(),
		AssignedAdmin:      nil,
	}}
	if err := s.DB.WithContext(ctx).Create(&prop).Error; err != nil {
		return "", fmt.Errorf("failed to save property: %w", err)
	}

	recordTransition("property", "submitted")
	s.Logger.Info("Property submitted", zap.String("property", prop.ID), zap.String("owner", uid))

	s.Notifier.Notify(ctx, uid,
		fmt.Sprintf("Your property (%s) was submitted successfully and is pending verification.", in.ParcelNumber),
		"/properties")

	return prop.ID, nil
}

// AdvocateSubmission is a new advocate application
type AdvocateSubmission struct {
	FullName             string
	Email                string
	PracticingCertNumber string
	FirmName             string
	FirmRegNumber        string
	Phone                string
	Address              string
	Files                []FileInput
}

// SubmitAdvocateApplication stores a pending advocate application for uid
func (s *SubmissionService) SubmitAdvocateApplication(ctx context.Context, uid string, in AdvocateSubmission) (string, error) {
	urls, err := s.uploadFiles(ctx, uid, advocateFilePurposes, in.Files)
	if err != nil {
		return "", err
	}

	app := models.AdvocateApplication{
		ID:                   newKey(),
		UID:                  uid,
		FullName:             in.FullName,
		Email:                in.Email,
		PracticingCertNumber: in.PracticingCertNumber,
		FirmName:             in.FirmName,
		FirmRegNumber:        in.FirmRegNumber,
		Phone:                in.Phone,
		Address:              in.Address,
		FileURLs:             urls,
		Status:               models.ApplicationStatusPending,
		AssignedAdmin:        nil,
		SubmittedAt:          s.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&app).Error; err != nil {
		return "", fmt.Errorf("failed to save application: %w", err)
	}

	recordTransition("advocate_application", "submitted")
	s.Logger.Info("Advocate application submitted", zap.String("application", app.ID), zap.String("uid", uid))

	s.Notifier.Notify(ctx, uid, "Your advocate application was submitted successfully and is now pending review.", "/dashboard")

	return app.ID, nil
}
