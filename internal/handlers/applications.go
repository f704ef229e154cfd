package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/types"
	"github.com/localnerve/landtoken/internal/utils"
)

// ApplicationHandler serves advocate application submission and review
type ApplicationHandler struct {
	Submissions *services.SubmissionService
	Reviews     *services.ReviewService
}

// SubmitApplication handles POST /submit-advocate-application
// @Summary Apply to become an advocate
// @Tags Advocates
// @Accept mpfd
// @Produce json
// @Param full-name formData string true "Full name"
// @Param email formData string true "Email"
// @Param cert-number formData string true "Practicing certificate number"
// @Param firm-name formData string false "Firm name"
// @Param firm-reg formData string false "Firm registration number"
// @Param phone formData string false "Phone"
// @Param address formData string false "Address"
// @Param cert-file formData file false "Practicing certificate"
// @Param lsk-id-file formData file false "Law society id"
// @Param national-id-file formData file false "National id"
// @Param profile-photo-file formData file false "Profile photo"
// @Success 201 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /submit-advocate-application [post]
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	uid, err := callerUID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return types.NewValidation("Expected a multipart form")
	}
	files, opened, err := formFiles(form, "cert-file", "lsk-id-file", "national-id-file", "profile-photo-file")
	if err != nil {
		return err
	}
	defer opened.Close()

	id, err := h.Submissions.SubmitAdvocateApplication(c.UserContext(), uid, services.AdvocateSubmission{
		FullName:             formValue(form, "full-name"),
		Email:                formValue(form, "email"),
		PracticingCertNumber: formValue(form, "cert-number"),
		FirmName:             formValue(form, "firm-name"),
		FirmRegNumber:        formValue(form, "firm-reg"),
		Phone:                formValue(form, "phone"),
		Address:              formValue(form, "address"),
		Files:                files,
	})
	if err != nil {
		return err
	}

	return utils.MessageResponse(c, fiber.StatusCreated, "Application submitted successfully!", fiber.Map{
		"applicationId": id,
	})
}

// ReviewApplication handles POST /review-advocate-application
// @Summary Review an advocate application
// @Description Approve or reject an advocate application. Approval returns the wallet to grant the advocate role on chain.
// @Tags Advocates
// @Accept json
// @Produce json
// @Param body body ReviewRequest true "applicationId, action (approve|reject) and comment"
// @Success 200 {object} services.AdvocateReviewResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /review-advocate-application [post]
func (h *ApplicationHandler) ReviewApplication(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.Reviews.ReviewAdvocateApplication(c.UserContext(), role.User.ID, services.ReviewInput{
		ID:      req.ApplicationID,
		Action:  req.Action,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// ClaimApplication handles POST /claim-advocate-application
// @Summary Claim an advocate application
// @Tags Advocates
// @Accept json
// @Produce json
// @Param body body ClaimRequest true "applicationId"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /claim-advocate-application [post]
func (h *ApplicationHandler) ClaimApplication(c *fiber.Ctx) error {
	role, err := callerRole(c)
	if err != nil {
		return err
	}
	var req ClaimRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.Reviews.ClaimAdvocateApplication(c.UserContext(), role.User.ID, req.ApplicationID); err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Application claimed", nil)
}
