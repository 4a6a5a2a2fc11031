package middleware

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/pkg/logger"
	"taskboard/pkg/utils"
)

// Protected validates the bearer token and puts the user context in
// fiber locals. Every route past this middleware can rely on
// utils.GetUserFromContext succeeding.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.DebugContext(c.UserContext(), "token validation failed", "error", err)
			switch err {
			case utils.ErrExpiredToken:
				return utils.UnauthorizedResponse(c, "Token has expired")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		c.Locals("user", userCtx)
		return c.Next()
	}
}
