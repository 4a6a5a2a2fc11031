package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/services"
	"taskboard/pkg/utils"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.projectService.Create(c.UserContext(), user.ID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, resp)
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var page dto.PaginationRequest
	if err := c.QueryParser(&page); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	page.Normalize()

	projects, total, err := h.projectService.List(c.UserContext(), user.ID, &page)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.PaginatedSuccessResponse(c, projects, total, page.Page, page.Limit)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	resp, err := h.projectService.Get(c.UserContext(), user.ID, projectID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.projectService.Update(c.UserContext(), user.ID, projectID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

// UpdateColumns replaces the project's board columns. Removing a column
// that still holds tasks is rejected with a conflict.
func (h *ProjectHandler) UpdateColumns(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	var req dto.UpdateColumnsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.projectService.UpdateColumns(c.UserContext(), user.ID, projectID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	if err := h.projectService.Delete(c.UserContext(), user.ID, projectID); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.NoContentResponse(c)
}

func (h *ProjectHandler) AddMember(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.projectService.AddMember(c.UserContext(), user.ID, projectID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, resp)
}

func (h *ProjectHandler) UpdateMemberRole(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid member ID")
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.projectService.UpdateMemberRole(c.UserContext(), user.ID, projectID, memberID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *ProjectHandler) RemoveMember(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid member ID")
	}

	if err := h.projectService.RemoveMember(c.UserContext(), user.ID, projectID, memberID); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.NoContentResponse(c)
}
