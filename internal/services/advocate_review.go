package services

import (
	"context"
	"errors"

	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdvocateOnChainData is what the client needs to grant the advocate role on chain
type AdvocateOnChainData struct {
	AdvocateWalletAddress string `json:"advocateWalletAddress"`
}

// AdvocateReviewResult describes a committed advocate application review
type AdvocateReviewResult struct {
	Message     string               `json:"message"`
	OnChainData *AdvocateOnChainData `json:"onChainData,omitempty"`
}

// ReviewAdvocateApplication rejects or approves an advocate application in place.
// Approval also sets the applicant's advocate flag.
func (s *ReviewService) ReviewAdvocateApplication(ctx context.Context, adminUID string, in ReviewInput) (*AdvocateReviewResult, error) {
	if err := in.validate("applicationId"); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var app models.AdvocateApplication
	if err := db.Where("id = ?", in.ID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("Application not found")
		}
		return nil, err
	}

	applicant, err := loadUser(ctx, s.DB, app.UID)
	if err != nil {
		return nil, err
	}
	if applicant == nil {
		return nil, types.NewNotFound("Applicant's user profile not found")
	}

	now := s.Now()

	if in.Action == ActionReject {
		err := db.Model(&app).Updates(map[string]interface{}{
			"status":            models.ApplicationStatusRejected,
			"rejection_comment": in.Comment,
			"reviewed_by":       adminUID,
			"reviewed_at":       now,
		}).Error
		if err != nil {
			return nil, err
		}

		recordTransition("advocate_application", "rejected")
		s.Logger.Info("Advocate application rejected", zap.String("application", app.ID), zap.String("admin", adminUID))

		comment := in.Comment
		s.Notifier.NotifyUser(ctx, applicant.ID, "Applicant", Message{
			Plain:   "Your advocate application has been rejected. Reason: " + comment,
			Link:    "/dashboard",
			Subject: "Your Advocate Application Has Been Rejected",
			HTML: func(name string) string {
				return "Hello " + name + ",<br><br>Your advocate application has been rejected. <br><b>Reason:</b> " + comment
			},
		})

		return &AdvocateReviewResult{Message: "Application rejected successfully"}, nil
	}

	if !applicant.HasWallet() {
		return nil, types.NewMissingWallet("Cannot approve: User has no wallet address linked.")
	}

	err = db.Model(&app).Updates(map[string]interface{}{
		"status":      models.ApplicationStatusApproved,
		"reviewed_by": adminUID,
		"reviewed_at": now,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := db.Model(applicant).Update("is_advocate", true).Error; err != nil {
		return nil, err
	}

	recordTransition("advocate_application", "approved")
	s.Logger.Info("Advocate application approved", zap.String("application", app.ID), zap.String("admin", adminUID))

	s.Notifier.NotifyUser(ctx, applicant.ID, "Applicant", Message{
		Plain:   "Congratulations! Your advocate application has been approved.",
		Link:    "/dashboard",
		Subject: "Your Advocate Application is Approved!",
		HTML: func(name string) string {
			return "Hello " + name + ",<br><br>Congratulations! Your application to be an advocate has been approved. You will now be asked to confirm this action on-chain."
		},
	})

	return &AdvocateReviewResult{
		Message:     "Application approved in database. Please confirm on-chain role grant.",
		OnChainData: &AdvocateOnChainData{AdvocateWalletAddress: *applicant.WalletAddress},
	}, nil
}

// ClaimAdvocateApplication assigns an advocate application to adminUID
func (s *ReviewService) ClaimAdvocateApplication(ctx context.Context, adminUID, applicationID string) error {
	if applicationID == "" {
		return types.NewValidation("Missing applicationId")
	}
	if err := claim(ctx, s.DB, &models.AdvocateApplication{}, applicationID, adminUID, "Application"); err != nil {
		return err
	}
	s.Logger.Debug("Advocate application claimed", zap.String("application", applicationID), zap.String("admin", adminUID))
	return nil
}
