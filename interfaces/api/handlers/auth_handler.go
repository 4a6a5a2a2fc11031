package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/domain/dto"
	"taskboard/domain/services"
	"taskboard/pkg/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	if err := h.authService.ChangePassword(c.UserContext(), user.ID, &req); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{"message": "Password changed"})
}
