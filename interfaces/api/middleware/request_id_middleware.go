package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskboard/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID, honouring one sent
// by the client.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDHeader, requestID)

		ctx := logger.ContextWithRequestID(c.Context(), requestID)
		c.SetUserContext(ctx)
		c.Locals("request_id", requestID)

		return c.Next()
	}
}

func GetRequestIDFromContext(c *fiber.Ctx) string {
	if requestID, ok := c.Locals("request_id").(string); ok {
		return requestID
	}
	return ""
}
