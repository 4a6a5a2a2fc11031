package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/interfaces/api/handlers"
	"taskboard/interfaces/api/middleware"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers) {
	auth := api.Group("/auth")

	auth.Post("/register", h.AuthHandler.Register)
	auth.Post("/login", h.AuthHandler.Login)

	auth.Get("/me", middleware.Protected(h.JWTSecret), h.UserHandler.GetProfile)
	auth.Put("/profile", middleware.Protected(h.JWTSecret), h.UserHandler.UpdateProfile)
	auth.Put("/change-password", middleware.Protected(h.JWTSecret), h.AuthHandler.ChangePassword)
	auth.Get("/users", middleware.Protected(h.JWTSecret), h.UserHandler.Search)
}
