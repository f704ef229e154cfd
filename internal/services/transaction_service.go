// transaction_service.go
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

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/landtoken/internal/chain"
	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/storage"
	"github.com/localnerve/landtoken/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Admin queue selectors
const (
	QueueUnassigned = "unassigned"
	QueueMine       = "mine"
)

// TransactionService runs the multi-party transaction workflow
type TransactionService struct {
	DB       *gorm.DB
	Uploader storage.Uploader
	Notifier *Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewTransactionService creates the transaction workflow service
func NewTransactionService(db *gorm.DB, uploader storage.Uploader, notifier *Notifier, log *zap.Logger) *TransactionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransactionService{
		DB:       db,
		Uploader: uploader,
		Notifier: notifier,
		Logger:   log.With(zap.String("service", "transactions")),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// actorName is the display name recorded for an advocate or admin
func actorName(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// optionalHash normalizes an optional transaction hash
func optionalHash(field, value string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	h, err := chain.NormalizeHash(value)
	if err != nil {
		return nil, types.NewValidation(fmt.Sprintf("Invalid %s: %v", field, err))
	}
	return &h, nil
}

// optionalAddress normalizes an optional wallet address
func optionalAddress(field, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	a, err := chain.NormalizeAddress(value)
	if err != nil {
		return "", types.NewValidation(fmt.Sprintf("Invalid %s: %v", field, err))
	}
	return a, nil
}

// PrereqsInput identifies the parties and property of a prospective transaction
type PrereqsInput struct {
	SellerNationalID string
	BuyerNationalID  string
	ParcelNumber     string
}

// Prereqs is the on-chain data needed to initiate a transaction
type Prereqs struct {
	SellerWalletAddress string `json:"sellerWalletAddress"`
	BuyerWalletAddress  string `json:"buyerWalletAddress"`
	TokenID             string `json:"tokenId"`
}

// Prereqs resolves both wallets and the property token id
func (s *TransactionService) Prereqs(ctx context.Context, in PrereqsInput) (*Prereqs, error) {
	if in.SellerNationalID == "" || in.BuyerNationalID == "" || in.ParcelNumber == "" {
		return nil, types.NewValidation("Missing seller ID, buyer ID, or parcel number")
	}

	sellerWallet, err := WalletForNationalID(ctx, s.DB, in.SellerNationalID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return nil, types.NewNotFound(fmt.Sprintf("Seller with National ID '%s' not found or has no wallet.", in.SellerNationalID))
		}
		return nil, err
	}

	buyerWallet, err := WalletForNationalID(ctx, s.DB, in.BuyerNationalID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return nil, types.NewNotFound(fmt.Sprintf("Buyer with National ID '%s' not found or has no wallet.", in.BuyerNationalID))
		}
		return nil, err
	}

	tokenID, err := TokenIDForParcel(ctx, s.DB, in.ParcelNumber)
	switch {
	case errors.Is(err, ErrPropertyNotFound):
		return nil, types.NewNotFound(fmt.Sprintf("Property with Parcel Number '%s' not found or not approved.", in.ParcelNumber))
	case errors.Is(err, ErrNotYetMinted):
		return nil, types.NewNotYetMinted(fmt.Sprintf("Property with Parcel Number '%s' is approved but not yet minted (no Token ID).", in.ParcelNumber))
	case err != nil:
		return nil, err
	}

	return &Prereqs{
		SellerWalletAddress: sellerWallet,
		BuyerWalletAddress:  buyerWallet,
		TokenID:             tokenID,
	}, nil
}

// PartyInput is the contact data submitted for a buyer or seller
type PartyInput struct {
	NationalID    string
	Name          string
	Email         string
	Phone         string
	WalletAddress string
}

// CreateTransactionInput is the payload of a new transaction
type CreateTransactionInput struct {
	ParcelNumber    string
	Location        string
	TokenID         string
	TxHash          string
	OnChainTxID     string
	AdvocateAddress string
	Seller          PartyInput
	Buyer           PartyInput
}

func (s *TransactionService) resolveParty(ctx context.Context, label string, in PartyInput) (models.Party, error) {
	uid, err := UIDForNationalID(ctx, s.DB, in.NationalID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.Party{}, types.NewNotFound(fmt.Sprintf("%s with National ID '%s' not found.", label, in.NationalID))
		}
		return models.Party{}, err
	}
	wallet, err := optionalAddress(label+" wallet address", in.WalletAddress)
	if err != nil {
		return models.Party{}, err
	}
	return models.Party{
		UID:           uid,
		Name:          in.Name,
		WalletAddress: wallet,
		Email:         in.Email,
		Phone:         in.Phone,
		VerifiedDocs:  nil,
	}, nil
}

// Create stores a new transaction brokered by actor together with its audit
// log entry in one batch, and returns the transaction key.
func (s *TransactionService) Create(ctx context.Context, actor *Role, in CreateTransactionInput) (string, error) {
	if in.ParcelNumber == "" {
		return "", types.NewValidation("Missing parcel number")
	}

	seller, err := s.resolveParty(ctx, "Seller", in.Seller)
	if err != nil {
		return "", err
	}
	buyer, err := s.resolveParty(ctx, "Buyer", in.Buyer)
	if err != nil {
		return "", err
	}
	if buyer.UID == seller.UID || chain.SameAddress(buyer.WalletAddress, seller.WalletAddress) {
		return "", types.NewValidation("Buyer and seller must be different users with different wallets")
	}

	advocateWallet, err := optionalAddress("advocate address", in.AdvocateAddress)
	if err != nil {
		return "", err
	}
	txHash, err := optionalHash("txHash", in.TxHash)
	if err != nil {
		return "", err
	}
	var tokenID *string
	if in.TokenID != "" {
		normalized, err := chain.NormalizeTokenID(in.TokenID)
		if err != nil {
			return "", types.NewValidation(err.Error())
		}
		tokenID = &normalized
	}
	var onChainTxID *string
	if in.OnChainTxID != "" {
		onChainTxID = strPtr(in.OnChainTxID)
	}

	name := actorName(actor.User)
	now := s.Now()
	t := models.Transaction{
		ID:           newKey(),
		ParcelNumber: in.ParcelNumber,
		Location:     in.Location,
		TokenID:      tokenID,
		TxHash:       txHash,
		OnChainTxID:  onChainTxID,
		Advocate: models.AdvocateRef{
			UID:           actor.User.ID,
			Name:          name,
			WalletAddress: advocateWallet,
		},
		Buyer:         buyer,
		Seller:        seller,
		Status:        models.TransactionStatusCreated,
		AssignedAdmin: nil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tokenText := "none"
	if tokenID != nil {
		tokenText = *tokenID
	}
	entry := models.LogEntry{
		Message:            fmt.Sprintf("Advocate %s initiated transaction for property %s (Token ID: %s).", name, in.ParcelNumber, tokenText),
		Timestamp:          now,
		RelatedTransaction: strPtr(t.ID),
		ActorUID:           actor.User.ID,
		TxHash:             txHash,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	recordTransition("transaction", "created")
	s.Logger.Info("Transaction created", zap.String("transaction", t.ID), zap.String("advocate", actor.User.ID))

	return t.ID, nil
}

// DocumentUpload is one named advocate document
type DocumentUpload struct {
	Name string
	File FileInput
}

// loadTransaction loads a transaction under a row lock
func loadTransaction(tx *gorm.DB, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := lockByID(tx, &t, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("Transaction not found")
		}
		return nil, err
	}
	return &t, nil
}

// bothAccepted fails unless buyer and seller accepted the current documents
func bothAccepted(t *models.Transaction) error {
	if !t.Buyer.Accepted() || !t.Seller.Accepted() {
		return types.NewConflict(types.TypeTransactionState,
			"Both buyer and seller must accept the documents before approval")
	}
	return nil
}

func terminalConflict(t *models.Transaction) error {
	if models.TransactionStatusTerminal(t.Status) {
		return types.NewConflict(types.TypeTransactionState, fmt.Sprintf("Transaction is already %s", t.Status))
	}
	return nil
}

// UploadDocuments stores advocate documents on a transaction. The new entries
// are appended, status returns to Awaiting Verification and both parties'
// verification flags are cleared.
func (s *TransactionService) UploadDocuments(ctx context.Context, actor *Role, transactionID string, docs []DocumentUpload) ([]models.TransactionDocument, error) {
	if transactionID == "" {
		return nil, types.NewValidation("Missing transactionId")
	}
	if len(docs) == 0 {
		return nil, types.NewValidation("File and document name mismatch")
	}
	for _, d := range docs {
		if d.Name == "" || d.File.Body == nil {
			return nil, types.NewValidation("File and document name mismatch")
		}
	}

	var current models.Transaction
	if err := s.DB.WithContext(ctx).Where("id = ?", transactionID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("Transaction not found")
		}
		return nil, err
	}
	if err := terminalConflict(&current); err != nil {
		return nil, err
	}

	uploaderUID := actor.User.ID
	uploaderName := actorName(actor.User)

	uploaded := make([]models.TransactionDocument, 0, len(docs))
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		key := storage.TransactionDocumentKey(transactionID, uploaderUID, d.Name)
		url, err := s.Uploader.Upload(ctx, key, d.File.ContentType, d.File.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", d.Name, err)
		}
		keys = append(keys, key)
		uploaded = append(uploaded, models.TransactionDocument{
			TransactionID:  transactionID,
			Name:           d.Name,
			URL:            url,
			UploadedAt:     s.Now(),
			UploadedByUID:  uploaderUID,
			UploadedByName: uploaderName,
		})
	}

	var t *models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = loadTransaction(tx, transactionID); err != nil {
			return err
		}
		if err := terminalConflict(t); err != nil {
			return err
		}
		if err := tx.Create(&uploaded).Error; err != nil {
			return err
		}
		return tx.Model(&models.Transaction{}).
			Where("id = ?", transactionID).
			Updates(map[string]interface{}{
				"status":               models.TransactionStatusAwaitingVerification,
				"buyer_verified_docs":  nil,
				"seller_verified_docs": nil,
				"updated_at":           s.Now(),
			}).Error
	})
	if err != nil {
		// Stored objects stay public; they are not referenced by any record
		s.Logger.Warn("Uploaded documents were not recorded",
			zap.String("transaction", transactionID),
			zap.Strings("keys", keys),
			zap.Error(err))
		return nil, err
	}

	recordTransition("transaction", "documents_uploaded")
	s.Logger.Info("Transaction documents uploaded",
		zap.String("transaction", transactionID),
		zap.Int("count", len(uploaded)))

	message := fmt.Sprintf("New documents have been uploaded by your advocate for transaction %s.", t.ParcelNumber)
	link := fmt.Sprintf("/transactions/%s", transactionID)
	s.Notifier.Notify(ctx, t.Buyer.UID, message, link)
	s.Notifier.Notify(ctx, t.Seller.UID, message, link)

	return uploaded, nil
}

// VerifyInput is a participant's decision on the uploaded documents
type VerifyInput struct {
	TransactionID string
	Action        string
	Comment       string
}

// VerifyResult reports a committed verification decision
type VerifyResult struct {
	Message  string `json:"message"`
	Status   string `json:"status"`
	Advanced bool   `json:"advanced"`
}

// VerifyDocuments records the buyer's or seller's decision. When a party
// accepts and the other party has already accepted, the transaction moves to
// Under Review and every admin is notified. A rejection while Under Review
// sends it back to Awaiting Verification.
func (s *TransactionService) VerifyDocuments(ctx context.Context, uid string, in VerifyInput) (*VerifyResult, error) {
	if in.TransactionID == "" || in.Action == "" {
		return nil, types.NewValidation("Missing transactionId or action")
	}
	if in.Action != ActionAccept && in.Action != ActionReject {
		return nil, types.NewValidation("Invalid action")
	}
	if in.Action == ActionReject && in.Comment == "" {
		return nil, types.NewValidation("Comment is required for rejection")
	}

	var (
		t        *models.Transaction
		party    string
		advanced bool
		reopened bool
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = loadTransaction(tx, in.TransactionID); err != nil {
			return err
		}

		var other models.Party
		switch uid {
		case t.Buyer.UID:
			party, other = "Buyer", t.Seller
		case t.Seller.UID:
			party, other = "Seller", t.Buyer
		default:
			return types.NewForbidden("You are not a participant in this transaction.")
		}
		if err := terminalConflict(t); err != nil {
			return err
		}

		prefix := "buyer_"
		if party == "Seller" {
			prefix = "seller_"
		}

		accepted := in.Action == ActionAccept
		updates := map[string]interface{}{
			prefix + "verified_docs": accepted,
			"updated_at":             s.Now(),
		}
		if !accepted {
			updates[prefix+"rejection_comment"] = in.Comment
		}
		switch {
		case accepted && other.Accepted() && t.Status != models.TransactionStatusUnderReview:
			updates["status"] = models.TransactionStatusUnderReview
			advanced = true
		case !accepted && t.Status == models.TransactionStatusUnderReview:
			updates["status"] = models.TransactionStatusAwaitingVerification
			reopened = true
		}

		if err := tx.Model(&models.Transaction{}).Where("id = ?", t.ID).Updates(updates).Error; err != nil {
			return err
		}
		switch {
		case advanced:
			t.Status = models.TransactionStatusUnderReview
		case reopened:
			t.Status = models.TransactionStatusAwaitingVerification
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actionText := "accepted"
	if in.Action == ActionReject {
		actionText = "rejected"
	}

	recordTransition("transaction", "documents_"+actionText)
	s.Logger.Info("Transaction documents "+actionText,
		zap.String("transaction", t.ID),
		zap.String("party", party),
		zap.Bool("under_review", advanced),
		zap.Bool("reopened", reopened))

	if reopened {
		recordTransition("transaction", "review_reopened")
	}
	if advanced {
		recordTransition("transaction", "under_review")
		s.Notifier.NotifyAdmins(ctx,
			fmt.Sprintf("Transaction %s is ready for final review.", t.ParcelNumber),
			fmt.Sprintf("/admin/transactions/%s", t.ID))
	}

	s.Notifier.Notify(ctx, t.Advocate.UID,
		fmt.Sprintf("%s has %s the documents for %s.", party, actionText, t.ParcelNumber),
		fmt.Sprintf("/advocate/transactions/%s", t.ID))

	return &VerifyResult{
		Message:  fmt.Sprintf("Successfully %s documents.", actionText),
		Status:   t.Status,
		Advanced: advanced,
	}, nil
}

// TransactionOnChainData is what the client needs to submit final approval on chain
type TransactionOnChainData struct {
	OnChainTxID string `json:"onChainTxId"`
}

// TransactionReviewResult describes an admin review decision
type TransactionReviewResult struct {
	Message     string                  `json:"message"`
	OnChainData *TransactionOnChainData `json:"onChainData,omitempty"`
}

// notifyParties notifies the buyer, seller and advocate of a transaction
func (s *TransactionService) notifyParties(ctx context.Context, t *models.Transaction, message string) {
	link := fmt.Sprintf("/transactions/%s", t.ID)
	s.Notifier.Notify(ctx, t.Buyer.UID, message, link)
	s.Notifier.Notify(ctx, t.Seller.UID, message, link)
	s.Notifier.Notify(ctx, t.Advocate.UID, message, fmt.Sprintf("/advocate/transactions/%s", t.ID))
}

// AdminReview rejects an Under Review transaction, or returns its on-chain
// staging id for the final approval call. Approval does not change status;
// see Finalize.
func (s *TransactionService) AdminReview(ctx context.Context, adminUID string, in ReviewInput) (*TransactionReviewResult, error) {
	if err := in.validate("transactionId"); err != nil {
		return nil, err
	}

	var t *models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = loadTransaction(tx, in.ID); err != nil {
			return err
		}
		if t.Status != models.TransactionStatusUnderReview {
			return types.NewConflict(types.TypeTransactionState,
				fmt.Sprintf("Transaction is %s, not ready for admin review", t.Status))
		}

		if in.Action == ActionApprove {
			if err := bothAccepted(t); err != nil {
				return err
			}
			if t.OnChainTxID == nil || *t.OnChainTxID == "" {
				return types.NewCriticalInconsistency("On-chain transaction ID is missing from this document.")
			}
			return nil
		}

		t.Status = models.TransactionStatusRejected
		return tx.Model(&models.Transaction{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"status":                  models.TransactionStatusRejected,
			"admin_rejection_comment": in.Comment,
			"reviewed_by":             adminUID,
			"updated_at":              s.Now(),
		}).Error
	})
	if err != nil {
		if types.IsType(err, types.TypeCriticalInconsistency) {
			s.Logger.Error("Transaction under review without on-chain id", zap.String("transaction", in.ID))
		}
		return nil, err
	}

	if in.Action == ActionApprove {
		return &TransactionReviewResult{
			Message:     "Database updated. Please confirm the final on-chain approval.",
			OnChainData: &TransactionOnChainData{OnChainTxID: *t.OnChainTxID},
		}, nil
	}

	recordTransition("transaction", "rejected")
	s.Logger.Info("Transaction rejected", zap.String("transaction", t.ID), zap.String("admin", adminUID))
	s.notifyParties(ctx, t, fmt.Sprintf("Transaction %s was rejected by an admin. Reason: %s", t.ParcelNumber, in.Comment))

	return &TransactionReviewResult{Message: "Transaction rejected successfully"}, nil
}

// RecordOnChainInput carries the identifiers produced by the on-chain initiation call
type RecordOnChainInput struct {
	TransactionID string
	OnChainTxID   string
	TxHash        string
}

// RecordOnChain stores the on-chain staging id of a transaction. Advocates may
// only record ids on transactions they created. Re-recording the same id is a no-op.
func (s *TransactionService) RecordOnChain(ctx context.Context, actor *Role, in RecordOnChainInput) error {
	if in.TransactionID == "" || in.OnChainTxID == "" {
		return types.NewValidation("Missing transactionId or onChainTxId")
	}
	txHash, err := optionalHash("txHash", in.TxHash)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := loadTransaction(tx, in.TransactionID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin && t.Advocate.UID != actor.User.ID {
			return types.NewForbidden("Only the transaction's advocate may record its on-chain id.")
		}
		if err := terminalConflict(t); err != nil {
			return err
		}
		if t.OnChainTxID != nil && *t.OnChainTxID != "" {
			if *t.OnChainTxID == in.OnChainTxID {
				return nil
			}
			return types.NewConflict(types.TypeConflict, "Transaction already has a different on-chain id")
		}

		updates := map[string]interface{}{
			"on_chain_tx_id": in.OnChainTxID,
			"updated_at":     s.Now(),
		}
		if txHash != nil {
			updates["tx_hash"] = *txHash
		}
		return tx.Model(&models.Transaction{}).Where("id = ?", t.ID).Updates(updates).Error
	})
	if err != nil {
		return err
	}

	recordTransition("transaction", "onchain_recorded")
	s.Logger.Info("Transaction on-chain id recorded",
		zap.String("transaction", in.TransactionID),
		zap.String("on_chain_id", in.OnChainTxID))
	return nil
}

// FinalizeInput confirms the final on-chain approval
type FinalizeInput struct {
	TransactionID string
	FinalTxHash   string
}

// Finalize moves an Under Review transaction to Approved after the final
// on-chain approval succeeded, with an audit log entry in the same batch.
func (s *TransactionService) Finalize(ctx context.Context, adminUID string, in FinalizeInput) (*models.Transaction, error) {
	if in.TransactionID == "" || in.FinalTxHash == "" {
		return nil, types.NewValidation("Missing transactionId or finalTxHash")
	}
	finalHash, err := chain.NormalizeHash(in.FinalTxHash)
	if err != nil {
		return nil, types.NewValidation(fmt.Sprintf("Invalid finalTxHash: %v", err))
	}

	var t *models.Transaction
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = loadTransaction(tx, in.TransactionID); err != nil {
			return err
		}
		if t.Status != models.TransactionStatusUnderReview {
			return types.NewConflict(types.TypeTransactionState,
				fmt.Sprintf("Transaction is %s, only Under Review transactions can be finalized", t.Status))
		}
		if err := bothAccepted(t); err != nil {
			return err
		}
		if t.OnChainTxID == nil || *t.OnChainTxID == "" {
			return types.NewCriticalInconsistency("On-chain transaction ID is missing from this document.")
		}

		now := s.Now()
		t.Status = models.TransactionStatusApproved
		t.FinalTxHash = &finalHash
		t.FinalizedAt = &now
		t.ReviewedBy = strPtr(adminUID)
		if err := tx.Model(&models.Transaction{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"status":        models.TransactionStatusApproved,
			"final_tx_hash": finalHash,
			"finalized_at":  now,
			"reviewed_by":   adminUID,
			"updated_at":    now,
		}).Error; err != nil {
			return err
		}

		entry := models.LogEntry{
			Message:            fmt.Sprintf("Transaction for property %s finalized on chain.", t.ParcelNumber),
			Timestamp:          now,
			RelatedTransaction: strPtr(t.ID),
			ActorUID:           adminUID,
			TxHash:             &finalHash,
			Details:            map[string]interface{}{"onChainTxId": *t.OnChainTxID},
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	recordTransition("transaction", "approved")
	s.Logger.Info("Transaction finalized", zap.String("transaction", t.ID), zap.String("admin", adminUID))
	s.notifyParties(ctx, t, fmt.Sprintf("Transaction %s has been approved and finalized.", t.ParcelNumber))

	return t, nil
}

// documentsInUploadOrder orders preloaded documents by insertion
func documentsInUploadOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// Claim assigns a transaction to adminUID
func (s *TransactionService) Claim(ctx context.Context, adminUID, transactionID string) error {
	if transactionID == "" {
		return types.NewValidation("Missing transactionId")
	}
	if err := claim(ctx, s.DB, &models.Transaction{}, transactionID, adminUID, "Transaction"); err != nil {
		return err
	}
	s.Logger.Debug("Transaction claimed", zap.String("transaction", transactionID), zap.String("admin", adminUID))
	return nil
}

// AdminQueue lists Under Review transactions: unassigned ones, or those
// claimed by adminUID.
func (s *TransactionService) AdminQueue(ctx context.Context, adminUID, queue string) ([]models.Transaction, error) {
	if queue == "" {
		queue = QueueUnassigned
	}

	query := s.DB.WithContext(ctx).
		Preload("Documents", documentsInUploadOrder).
		Where("status = ?", models.TransactionStatusUnderReview)

	switch queue {
	case QueueUnassigned:
		query = query.Clauses(hints.CommentBefore("select", "admin-queue:unassigned")).
			Where("assigned_admin IS NULL")
	case QueueMine:
		query = query.Clauses(hints.CommentBefore("select", "admin-queue:mine")).
			Where("assigned_admin = ?", adminUID)
	default:
		return nil, types.NewValidation("queue must be 'unassigned' or 'mine'")
	}

	var out []models.Transaction
	if err := query.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("admin queue query failed: %w", err)
	}
	return out, nil
}

// Get returns a transaction with its documents
func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.DB.WithContext(ctx).Preload("Documents", documentsInUploadOrder).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("Transaction not found")
		}
		return nil, err
	}
	return &t, nil
}
