package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/interfaces/api/handlers"
	"taskboard/interfaces/api/middleware"
)

func SetupProjectRoutes(api fiber.Router, h *handlers.Handlers) {
	projects := api.Group("/projects")
	projects.Use(middleware.Protected(h.JWTSecret))

	projects.Post("/", h.ProjectHandler.Create)
	projects.Get("/", h.ProjectHandler.List)
	projects.Get("/:projectId", h.ProjectHandler.Get)
	projects.Put("/:projectId", h.ProjectHandler.Update)
	projects.Put("/:projectId/columns", h.ProjectHandler.UpdateColumns)
	projects.Delete("/:projectId", h.ProjectHandler.Delete)

	projects.Post("/:projectId/members", h.ProjectHandler.AddMember)
	projects.Put("/:projectId/members/:memberId", h.ProjectHandler.UpdateMemberRole)
	projects.Delete("/:projectId/members/:memberId", h.ProjectHandler.RemoveMember)

	// Board tasks live under their project.
	projects.Post("/:projectId/tasks", h.TaskHandler.Create)
	projects.Get("/:projectId/tasks", h.TaskHandler.List)
}
