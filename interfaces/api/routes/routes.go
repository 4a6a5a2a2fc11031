package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers) {
	SetupHealthRoutes(app)

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h)
	SetupUserRoutes(api, h)
	SetupProjectRoutes(api, h)
	SetupTaskRoutes(api, h)
	SetupNotificationRoutes(api, h)
}
