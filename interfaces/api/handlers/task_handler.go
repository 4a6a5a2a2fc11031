package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/services"
	"taskboard/pkg/utils"
)

type TaskHandler struct {
	taskService   services.TaskService
	maxUploadSize int64
}

func NewTaskHandler(taskService services.TaskService, maxUploadSize int64) *TaskHandler {
	return &TaskHandler{taskService: taskService, maxUploadSize: maxUploadSize}
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.taskService.Create(c.UserContext(), user.ID, projectID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, resp)
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	var req dto.ListTasksRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	tasks, err := h.taskService.ListByProject(c.UserContext(), user.ID, projectID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, tasks)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	resp, err := h.taskService.Get(c.UserContext(), user.ID, taskID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.taskService.Update(c.UserContext(), user.ID, taskID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

// Move repositions a task on the board.
func (h *TaskHandler) Move(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.MoveTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	resp, err := h.taskService.Move(c.UserContext(), user.ID, taskID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	if err := h.taskService.Delete(c.UserContext(), user.ID, taskID); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.NoContentResponse(c)
}

func (h *TaskHandler) UploadAttachment(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequestResponse(c, "No file uploaded")
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		return utils.BadRequestResponse(c, fmt.Sprintf("File exceeds maximum size of %d bytes", h.maxUploadSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.BadRequestResponse(c, "Cannot read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := h.taskService.AddAttachment(c.UserContext(), user.ID, taskID, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, resp)
}

func (h *TaskHandler) DeleteAttachment(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}
	attachmentID, err := uuid.Parse(c.Params("attachmentId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid attachment ID")
	}

	resp, err := h.taskService.RemoveAttachment(c.UserContext(), user.ID, taskID, attachmentID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, resp)
}
