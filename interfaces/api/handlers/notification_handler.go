package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/services"
	"taskboard/pkg/utils"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.ListNotificationsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	req.Normalize()

	notifications, total, err := h.notificationService.List(c.UserContext(), user.ID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.PaginatedSuccessResponse(c, notifications, total, req.Page, req.Limit)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	count, err := h.notificationService.UnreadCount(c.UserContext(), user.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	notificationID, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.UserContext(), user.ID, notificationID); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	if err := h.notificationService.MarkAllRead(c.UserContext(), user.ID); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	notificationID, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid notification ID")
	}

	if err := h.notificationService.Delete(c.UserContext(), user.ID, notificationID); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.NoContentResponse(c)
}
