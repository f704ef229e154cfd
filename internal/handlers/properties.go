package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/types"
	"github.com/localnerve/landtoken/internal/utils"
)

// PropertyHandler serves property submission and review
type PropertyHandler struct {
	Submissions *services.SubmissionService
	Reviews     *services.ReviewService
}

// ReviewRequest is an admin decision on a property or advocate application
type ReviewRequest struct {
	PropertyID    string `json:"propertyId,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Action        string `json:"action"`
	Comment       string `json:"comment"`
}

// ConfirmMintRequest reports a successful property mint
type ConfirmMintRequest struct {
	PropertyID string           `json:"propertyId"`
	TxHash     string           `json:"txHash"`
	TokenID    types.FlexString `json:"tokenId" swaggertype:"string"`
}

// ClaimRequest claims a record for the calling admin
type ClaimRequest struct {
	PropertyID    string `json:"propertyId,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

// AddProperty handles POST /add-property
// @Summary Submit a property
// @Description Submit a property with its title deed and survey map for admin verification
// @Tags Properties
// @Accept mpfd
// @Produce json
// @Param parcelNumber formData string true "Parcel number"
// @Param location formData string false "Location"
// @Param titleDeedFile formData file false "Title deed"
// @Param surveyMapFile formData file false "Survey map"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /add-property [post]
func (h *PropertyHandler) AddProperty(c *fiber.Ctx) error {
	uid, err := callerUID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return types.NewValidation("Expected a multipart form")
	}
	files, opened, err := formFiles(form, "titleDeedFile", "surveyMapFile")
	if err != nil {
		return err
	}
	defer opened.Close()

	id, err := h.Submissions.AddProperty(c.UserContext(), uid, services.PropertySubmission{
		ParcelNumber: formValue(form, "parcelNumber"),
		Location:     formValue(form, "location"),
		Files:        files,
	})
	if err != nil {
		return err
	}

	return utils.MessageResponse(c, fiber.StatusCreated, "Property submitted successfully for verification!", fiber.Map{
		"propertyId": id,
	})
}

// ReviewProperty handles POST /review-property
// @Summary Review a property
// @Description Approve or reject a pending property. Approval returns the data needed to mint it.
// @Tags Properties
// @Accept json
// @Produce json
// @Param body body ReviewRequest true "propertyId, action (approve|reject) and comment"
// @Success 200 {object} services.PropertyReviewResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /review-property [post]
func (h *PropertyHandler) ReviewProperty(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.Reviews.ReviewProperty(c.UserContext(), role.User.ID, services.ReviewInput{
		ID:      req.PropertyID,
		Action:  req.Action,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// ConfirmMint handles POST /confirm-property-mint
// @Summary Confirm a property mint
// @Description Record the mint transaction hash and token id of an approved property
// @Tags Properties
// @Accept json
// @Produce json
// @Param body body ConfirmMintRequest true "Mint result"
// @Success 200 {object} models.ApprovedProperty
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /confirm-property-mint [post]
func (h *PropertyHandler) ConfirmMint(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req ConfirmMintRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	prop, err := h.Reviews.ConfirmPropertyMint(c.UserContext(), role.User.ID, services.MintConfirmation{
		PropertyID: req.PropertyID,
		TxHash:     req.TxHash,
		TokenID:    req.TokenID.String(),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(prop)
}

// ClaimProperty handles POST /claim-property
// @Summary Claim a pending property
// @Tags Properties
// @Accept json
// @Produce json
// @Param body body ClaimRequest true "propertyId"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /claim-property [post]
func (h *PropertyHandler) ClaimProperty(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req ClaimRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.Reviews.ClaimProperty(c.UserContext(), role.User.ID, req.PropertyID); err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Property claimed", nil)
}
