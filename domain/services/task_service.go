package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"taskboard/domain/dto"
)

type TaskService interface {
	Create(ctx context.Context, userID, projectID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*dto.TaskResponse, error)
	ListByProject(ctx context.Context, userID, projectID uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	// Move repositions a task within its column or into another column,
	// keeping positions dense in every affected column.
	Move(ctx context.Context, userID, taskID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	AddAttachment(ctx context.Context, userID, taskID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (*dto.TaskResponse, error)
	RemoveAttachment(ctx context.Context, userID, taskID, attachmentID uuid.UUID) (*dto.TaskResponse, error)
}
