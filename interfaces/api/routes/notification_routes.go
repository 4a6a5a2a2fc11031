package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/interfaces/api/handlers"
	"taskboard/interfaces/api/middleware"
)

func SetupNotificationRoutes(api fiber.Router, h *handlers.Handlers) {
	notifications := api.Group("/notifications")
	notifications.Use(middleware.Protected(h.JWTSecret))

	notifications.Get("/", h.NotificationHandler.List)
	notifications.Get("/unread-count", h.NotificationHandler.UnreadCount)
	notifications.Patch("/read-all", h.NotificationHandler.MarkAllRead)
	notifications.Patch("/:notificationId/read", h.NotificationHandler.MarkRead)
	notifications.Delete("/:notificationId", h.NotificationHandler.Delete)
}
