package middleware

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/pkg/apperrors"
	"taskboard/pkg/logger"
	"taskboard/pkg/utils"
)

// ErrorHandler is the app-level catch-all. Service errors carrying a
// taxonomy kind map to their status; fiber errors keep their code;
// anything else is a 500 with the cause logged but not leaked.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if kind := apperrors.KindOf(err); kind != apperrors.KindInternal {
			return utils.AppErrorResponse(c, err)
		}

		if e, ok := err.(*fiber.Error); ok {
			errCode := utils.ErrCodeInternalError
			switch e.Code {
			case fiber.StatusBadRequest:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusUnauthorized:
				errCode = utils.ErrCodeUnauthorized
			case fiber.StatusForbidden:
				errCode = utils.ErrCodeForbidden
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			case fiber.StatusConflict:
				errCode = utils.ErrCodeConflict
			}
			return utils.ErrorResponse(c, e.Code, errCode, e.Message, nil)
		}

		logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
		return utils.InternalServerErrorResponse(c)
	}
}
