package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/localnerve/landtoken/internal/chain"
	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PropertyOnChainData is what the client needs to mint an approved property
type PropertyOnChainData struct {
	OwnerWalletAddress string `json:"ownerWalletAddress"`
	ParcelNumber       string `json:"parcelNumber"`
}

// PropertyReviewResult describes a committed property review
type PropertyReviewResult struct {
	Message     string               `json:"message"`
	OnChainData *PropertyOnChainData `json:"onChainData,omitempty"`
}

// ReviewProperty rejects or approves a property application.
//
// Reject moves the pending record to the rejected collection. Approve moves
// it to the approved collection, or, when the record was approved before but
// never minted, returns the mint payload again.
func (s *ReviewService) ReviewProperty(ctx context.Context, adminUID string, in ReviewInput) (*PropertyReviewResult, error) {
	if err := in.validate("propertyId"); err != nil {
		return nil, err
	}

	if in.Action == ActionReject {
		return s.rejectProperty(ctx, adminUID, in.ID, in.Comment)
	}
	return s.approveProperty(ctx, adminUID, in.ID)
}

// loadPending returns the pending record or nil
func loadPending(tx *gorm.DB, id string) (*models.PendingProperty, error) {
	var pending models.PendingProperty
	err := tx.Where("id = ?", id).First(&pending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pending, nil
}

// deletePending removes the pending row; zero rows means another review won
func deletePending(tx *gorm.DB, id string) error {
	res := tx.Where("id = ?", id).Delete(&models.PendingProperty{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NewNotFound("Property already processed or not found.")
	}
	return nil
}

func (s *ReviewService) rejectProperty(ctx context.Context, adminUID, id, comment string) (*PropertyReviewResult, error) {
	var moved models.RejectedProperty

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := loadPending(tx, id)
		if err != nil {
			return err
		}
		if pending == nil {
			return types.NewNotFound("Property already processed or not found.")
		}
		if err := deletePending(tx, id); err != nil {
			return err
		}

		moved = models.RejectedProperty{
			PropertyRecord:   pending.PropertyRecord,
			RejectionComment: comment,
			RejectedAt:       timePtr(s.Now()),
		}
		moved.Status = models.PropertyStatusRejected
		moved.ReviewedBy = strPtr(adminUID)

		return tx.Create(&moved).Error
	})
	if err != nil {
		return nil, err
	}

	recordTransition("property", "rejected")
	s.Logger.Info("Property rejected", zap.String("property", id), zap.String("admin", adminUID))

	parcel := moved.ParcelNumber
	s.Notifier.NotifyUser(ctx, moved.UID, "User", Message{
		Plain:   fmt.Sprintf("There was an issue verifying %s. Reason: %s", parcel, comment),
		Link:    "/properties",
		Subject: fmt.Sprintf("Action Required: Your Property (%s) Was Rejected", parcel),
		HTML: func(name string) string {
			return fmt.Sprintf("Hello %s,<br><br>There was an issue verifying <b>%s</b>. <br><b>Reason:</b> %s", name, parcel, comment)
		},
	})

	return &PropertyReviewResult{Message: "Property rejected and moved successfully"}, nil
}

func (s *ReviewService) approveProperty(ctx context.Context, adminUID, id string) (*PropertyReviewResult, error) {
	var (
		moved *models.ApprovedProperty
		retry *models.ApprovedProperty
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := loadPending(tx, id)
		if err != nil {
			return err
		}

		if pending == nil {
			var approved models.ApprovedProperty
			err := tx.Where("id = ?", id).First(&approved).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFound("Property not found. It may have been rejected or already processed.")
			}
			if err != nil {
				return err
			}
			if approved.TxHash != nil && *approved.TxHash != "" {
				return types.NewAlreadyMinted("This property has already been approved and minted.")
			}
			retry = &approved
			return nil
		}

		if err := deletePending(tx, id); err != nil {
			return err
		}

		moved = &models.ApprovedProperty{
			PropertyRecord: pending.PropertyRecord,
			ApprovedAt:     timePtr(s.Now()),
			TxHash:         nil,
			TokenID:        nil,
		}
		moved.Status = models.PropertyStatusApproved
		moved.ReviewedBy = strPtr(adminUID)

		return tx.Create(moved).Error
	})
	if err != nil {
		return nil, err
	}

	if retry != nil {
		s.Logger.Info("Property mint retry", zap.String("property", id))
		return &PropertyReviewResult{
			Message: "Property already approved. Retrying mint...",
			OnChainData: &PropertyOnChainData{
				OwnerWalletAddress: retry.OwnerWalletAddress,
				ParcelNumber:       retry.ParcelNumber,
			},
		}, nil
	}

	recordTransition("property", "approved")
	s.Logger.Info("Property approved", zap.String("property", id), zap.String("admin", adminUID))

	parcel := moved.ParcelNumber
	s.Notifier.NotifyUser(ctx, moved.UID, "User", Message{
		Plain:   fmt.Sprintf("Good news! Your property %s has been approved by an admin.", parcel),
		Link:    "/properties",
		Subject: fmt.Sprintf("Your Property Has Been Approved (%s)", parcel),
		HTML: func(name string) string {
			return fmt.Sprintf("Hello %s,<br><br>Good news! Your property <b>%s</b> has been approved by an admin. It is now ready to be minted to the blockchain.", name, parcel)
		},
	})

	return &PropertyReviewResult{
		Message: "Property approved in database. Please confirm on-chain minting.",
		OnChainData: &PropertyOnChainData{
			OwnerWalletAddress: moved.OwnerWalletAddress,
			ParcelNumber:       moved.ParcelNumber,
		},
	}, nil
}

// MintConfirmation records the result of a successful property mint
type MintConfirmation struct {
	PropertyID string
	TxHash     string
	TokenID    string
}

// ConfirmPropertyMint stores the mint hash and token id on an approved
// property and appends an audit log entry in the same batch.
func (s *ReviewService) ConfirmPropertyMint(ctx context.Context, adminUID string, in MintConfirmation) (*models.ApprovedProperty, error) {
	if in.PropertyID == "" || in.TxHash == "" || in.TokenID == "" {
		return nil, types.NewValidation("Missing propertyId, txHash or tokenId")
	}
	txHash, err := chain.NormalizeHash(in.TxHash)
	if err != nil {
		return nil, types.NewValidation(err.Error())
	}
	tokenID, err := chain.NormalizeTokenID(in.TokenID)
	if err != nil {
		return nil, types.NewValidation(err.Error())
	}

	var prop models.ApprovedProperty
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &prop, in.PropertyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFound("Approved property not found")
			}
			return err
		}
		if prop.TxHash != nil && *prop.TxHash != "" {
			return types.NewAlreadyMinted("This property has already been approved and minted.")
		}

		now := s.Now()
		prop.TxHash = &txHash
		prop.TokenID = &tokenID
		prop.MintedAt = &now
		if err := tx.Model(&prop).Updates(map[string]interface{}{
			"tx_hash":   txHash,
			"token_id":  tokenID,
			"minted_at": now,
		}).Error; err != nil {
			return err
		}

		entry := models.LogEntry{
			Message:    fmt.Sprintf("Property %s minted (Token ID: %s).", prop.ParcelNumber, tokenID),
			Timestamp:  now,
			PropertyID: strPtr(prop.ID),
			ActorUID:   adminUID,
			TxHash:     &txHash,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	recordTransition("property", "minted")
	s.Logger.Info("Property mint confirmed", zap.String("property", prop.ID), zap.String("token", tokenID))

	s.Notifier.Notify(ctx, prop.UID,
		fmt.Sprintf("Your property %s has been minted (Token ID: %s).", prop.ParcelNumber, tokenID),
		"/properties")

	return &prop, nil
}

// ClaimProperty assigns a pending property to adminUID
func (s *ReviewService) ClaimProperty(ctx context.Context, adminUID, propertyID string) error {
	if propertyID == "" {
		return types.NewValidation("Missing propertyId")
	}
	if err := claim(ctx, s.DB, &models.PendingProperty{}, propertyID, adminUID, "Property"); err != nil {
		return err
	}
	s.Logger.Debug("Property claimed", zap.String("property", propertyID), zap.String("admin", adminUID))
	return nil
}
