package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/interfaces/api/handlers"
	"taskboard/interfaces/api/middleware"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.Protected(h.JWTSecret))

	tasks.Get("/:taskId", h.TaskHandler.Get)
	tasks.Put("/:taskId", h.TaskHandler.Update)
	tasks.Patch("/:taskId/position", h.TaskHandler.Move)
	tasks.Delete("/:taskId", h.TaskHandler.Delete)

	tasks.Post("/:taskId/attachments", h.TaskHandler.UploadAttachment)
	tasks.Delete("/:taskId/attachments/:attachmentId", h.TaskHandler.DeleteAttachment)
}
