// transactions.go
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

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/types"
	"github.com/localnerve/landtoken/internal/utils"
)

// TransactionHandler serves the transaction workflow
type TransactionHandler struct {
	Transactions *services.TransactionService
	Gate         *services.IdentityGate
}

// PrereqsRequest identifies the parties and parcel of a prospective transaction
type PrereqsRequest struct {
	SellerNationalID string `json:"sellerNationalId"`
	BuyerNationalID  string `json:"buyerNationalId"`
	ParcelNumber     string `json:"parcelNumber"`
}

// CreateTransactionRequest is the create-transaction payload
type CreateTransactionRequest struct {
	ParcelNumber        string           `json:"parcelNumber"`
	Location            string           `json:"location"`
	SellerID            string           `json:"seller-id"`
	SellerName          string           `json:"seller-name"`
	SellerEmail         string           `json:"seller-email"`
	SellerPhone         string           `json:"seller-phone"`
	SellerWalletAddress string           `json:"sellerWalletAddress"`
	BuyerID             string           `json:"buyer-id"`
	BuyerName           string           `json:"buyer-name"`
	BuyerEmail          string           `json:"buyer-email"`
	BuyerPhone          string           `json:"buyer-phone"`
	BuyerWalletAddress  string           `json:"buyerWalletAddress"`
	AdvocateAddress     string           `json:"advocateAddress"`
	TokenID             types.FlexString `json:"tokenId" swaggertype:"string"`
	TxHash              string           `json:"txHash"`
	OnChainTxID         types.FlexString `json:"onChainTxId" swaggertype:"string"`
}

// VerifyRequest is a participant's decision on the uploaded documents
type VerifyRequest struct {
	TransactionID string `json:"transactionId"`
	Action        string `json:"action"`
	Comment       string `json:"comment"`
}

// RecordOnChainRequest carries the on-chain staging identifiers
type RecordOnChainRequest struct {
	TransactionID string           `json:"transactionId"`
	OnChainTxID   types.FlexString `json:"onChainTxId" swaggertype:"string"`
	TxHash        string           `json:"txHash"`
}

// FinalizeRequest confirms the final on-chain approval
type FinalizeRequest struct {
	TransactionID string `json:"transactionId"`
	FinalTxHash   string `json:"finalTxHash"`
}

// GetPrereqs handles POST /get-transaction-prereqs
// @Summary Resolve transaction prerequisites
// @Description Resolve the seller and buyer wallets and the property token id
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body PrereqsRequest true "National ids and parcel number"
// @Success 200 {object} services.Prereqs
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /get-transaction-prereqs [post]
func (h *TransactionHandler) GetPrereqs(c *fiber.Ctx) error {
	var req PrereqsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	prereqs, err := h.Transactions.Prereqs(c.UserContext(), services.PrereqsInput{
		SellerNationalID: strings.TrimSpace(req.SellerNationalID),
		BuyerNationalID:  strings.TrimSpace(req.BuyerNationalID),
		ParcelNumber:     strings.TrimSpace(req.ParcelNumber),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(prereqs)
}

// CreateTransaction handles POST /create-transaction
// @Summary Create a transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body CreateTransactionRequest true "Transaction payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /create-transaction [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req CreateTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	id, err := h.Transactions.Create(c.UserContext(), role, services.CreateTransactionInput{
		ParcelNumber:    req.ParcelNumber,
		Location:        req.Location,
		TokenID:         req.TokenID.String(),
		TxHash:          req.TxHash,
		OnChainTxID:     req.OnChainTxID.String(),
		AdvocateAddress: req.AdvocateAddress,
		Seller: services.PartyInput{
			NationalID:    req.SellerID,
			Name:          req.SellerName,
			Email:         req.SellerEmail,
			Phone:         req.SellerPhone,
			WalletAddress: req.SellerWalletAddress,
		},
		Buyer: services.PartyInput{
			NationalID:    req.BuyerID,
			Name:          req.BuyerName,
			Email:         req.BuyerEmail,
			Phone:         req.BuyerPhone,
			WalletAddress: req.BuyerWalletAddress,
		},
	})
	if err != nil {
		return err
	}

	return utils.MessageResponse(c, fiber.StatusCreated, "Transaction created successfully", fiber.Map{
		"transactionId": id,
	})
}

// UploadDocuments handles POST /advocate-upload-docs
// @Summary Upload transaction documents
// @Description Upload named documents; both parties must verify again afterwards
// @Tags Transactions
// @Accept mpfd
// @Produce json
// @Param transactionId formData string true "Transaction id"
// @Param files formData file true "Documents, one per docNames entry"
// @Param docNames formData string true "Document names, one per file"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /advocate-upload-docs [post]
func (h *TransactionHandler) UploadDocuments(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return types.NewValidation("Expected a multipart form")
	}
	transactionID := formValue(form, "transactionId")
	if transactionID == "" {
		return types.NewValidation("Missing transactionId")
	}

	headers := form.File["files"]
	names := form.Value["docNames"]
	if len(headers) == 0 || len(names) == 0 || len(headers) != len(names) {
		return types.NewValidation("File and document name mismatch")
	}

	var opened openedFiles
	defer opened.Close()

	docs := make([]services.DocumentUpload, 0, len(headers))
	for i, fh := range headers {
		file, err := opened.openFile("files", fh)
		if err != nil {
			return err
		}
		docs = append(docs, services.DocumentUpload{Name: strings.TrimSpace(names[i]), File: file})
	}

	uploaded, err := h.Transactions.UploadDocuments(c.UserContext(), role, transactionID, docs)
	if err != nil {
		return err
	}

	return utils.MessageResponse(c, fiber.StatusOK, "Documents uploaded successfully", fiber.Map{
		"uploadedDocs": uploaded,
	})
}

// VerifyDocuments handles POST /verify-documents
// @Summary Accept or reject transaction documents
// @Description Buyer or seller decision. Both acceptances move the transaction to Under Review.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body VerifyRequest true "transactionId, action (accept|reject) and comment"
// @Success 200 {object} services.VerifyResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /verify-documents [post]
func (h *TransactionHandler) VerifyDocuments(c *fiber.Ctx) error {
	uid, err := callerUID(c)
	if err != nil {
		return err
	}
	var req VerifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.Transactions.VerifyDocuments(c.UserContext(), uid, services.VerifyInput{
		TransactionID: req.TransactionID,
		Action:        req.Action,
		Comment:       req.Comment,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// AdminReview handles POST /admin-review-transaction
// @Summary Admin review of a transaction
// @Description Reject an Under Review transaction, or fetch its on-chain id for final approval
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body ReviewRequest true "transactionId, action (approve|reject) and comment"
// @Success 200 {object} services.TransactionReviewResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /admin-review-transaction [post]
func (h *TransactionHandler) AdminReview(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.Transactions.AdminReview(c.UserContext(), role.User.ID, services.ReviewInput{
		ID:      req.TransactionID,
		Action:  req.Action,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// RecordOnChain handles POST /record-transaction-onchain
// @Summary Record the on-chain transaction id
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body RecordOnChainRequest true "On-chain identifiers"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /record-transaction-onchain [post]
func (h *TransactionHandler) RecordOnChain(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req RecordOnChainRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	err = h.Transactions.RecordOnChain(c.UserContext(), role, services.RecordOnChainInput{
		TransactionID: req.TransactionID,
		OnChainTxID:   req.OnChainTxID.String(),
		TxHash:        req.TxHash,
	})
	if err != nil {
		return err
	}

	return utils.MessageResponse(c, fiber.StatusOK, "On-chain transaction id recorded", nil)
}

// Finalize handles POST /finalize-transaction
// @Summary Finalize an approved transaction
// @Description Mark an Under Review transaction Approved after the final on-chain approval
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body FinalizeRequest true "transactionId and finalTxHash"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /finalize-transaction [post]
func (h *TransactionHandler) Finalize(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req FinalizeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	t, err := h.Transactions.Finalize(c.UserContext(), role.User.ID, services.FinalizeInput{
		TransactionID: req.TransactionID,
		FinalTxHash:   req.FinalTxHash,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(t)
}

// Claim handles POST /claim-transaction
// @Summary Claim a transaction for review
// @Tags Transactions
// @Accept json
// @Produce json
// @Param body body ClaimRequest true "transactionId"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /claim-transaction [post]
func (h *TransactionHandler) Claim(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req ClaimRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.Transactions.Claim(c.UserContext(), role.User.ID, req.TransactionID); err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Transaction claimed", nil)
}

// AdminQueue handles GET /admin/transactions
// @Summary List transactions awaiting admin review
// @Tags Transactions
// @Produce json
// @Param queue query string false "unassigned (default) or mine"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /admin/transactions [get]
func (h *TransactionHandler) AdminQueue(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}

	list, err := h.Transactions.AdminQueue(c.UserContext(), role.User.ID, c.Query("queue", services.QueueUnassigned))
	if err != nil {
		return err
	}
	if list == nil {
		list = []models.Transaction{}
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

// GetTransaction handles GET /transactions/:id
// @Summary Get a transaction
// @Description Visible to its buyer, seller and advocate, and to admins
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction id"
// @Success 200 {object} models.Transaction
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	uid, err := callerUID(c)
	if err != nil {
		return err
	}

	t, err := h.Transactions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	if uid != t.Buyer.UID && uid != t.Seller.UID && uid != t.Advocate.UID {
		if _, err := h.Gate.RequireAdmin(c.UserContext(), uid); err != nil {
			if types.AsCustomError(err).Code == fiber.StatusForbidden {
				return types.NewForbidden("You are not a participant in this transaction.")
			}
			return err
		}
	}

	return c.Status(fiber.StatusOK).JSON(t)
}
