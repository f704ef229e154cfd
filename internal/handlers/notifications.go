package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/services"
)

// NotificationHandler serves the caller's notification feed
type NotificationHandler struct {
	Notifier *services.Notifier
}

// ListNotifications handles GET /notifications
// @Summary List my notifications
// @Description Newest first
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum entries (default 50, max 200)"
// @Success 200 {array} models.Notification
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	uid, err := callerUID(c)
	if err != nil {
		return err
	}

	list, err := h.Notifier.List(c.UserContext(), uid, c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	if list == nil {
		list = []models.Notification{}
	}

	return c.Status(fiber.StatusOK).JSON(list)
}
