package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/domain/dto"
	"taskboard/domain/services"
	"taskboard/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	resp, err := h.userService.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.userService.UpdateProfile(c.UserContext(), user.ID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

// Search finds users to invite into a project.
func (h *UserHandler) Search(c *fiber.Ctx) error {
	if _, err := utils.GetUserFromContext(c); err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.SearchUsersRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}
	req.Normalize()

	users, total, err := h.userService.Search(c.UserContext(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.PaginatedSuccessResponse(c, users, total, req.Page, req.Limit)
}
