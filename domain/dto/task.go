package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=255"`
	Description string      `json:"description" validate:"omitempty,max=10000"`
	Column      string      `json:"column" validate:"required,max=100"`
	Priority    string      `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time  `json:"dueDate"`
	Assignees   []uuid.UUID `json:"assignees" validate:"omitempty,max=20"`
	Labels      []string    `json:"labels" validate:"omitempty,max=20,dive,max=50"`
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description" validate:"omitempty,max=10000"`
	Column      *string      `json:"column" validate:"omitempty,max=100"`
	Priority    *string      `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time   `json:"dueDate"`
	ClearDue    bool         `json:"clearDueDate"`
	Assignees   *[]uuid.UUID `json:"assignees" validate:"omitempty,max=20"`
	Labels      *[]string    `json:"labels" validate:"omitempty,max=20,dive,max=50"`
}

// MoveTaskRequest repositions a task. Column may equal the task's current
// column (reorder within) or name another column (cross-column move).
// SourceColumn is what the client believes the task's current column is;
// the server trusts its own record, so the field is informational only.
type MoveTaskRequest struct {
	Column       string `json:"column" validate:"required,max=100"`
	Order        int    `json:"order" validate:"gte=0"`
	SourceColumn string `json:"sourceColumn" validate:"omitempty,max=100"`
}

type TaskResponse struct {
	ID          uuid.UUID            `json:"id"`
	ProjectID   uuid.UUID            `json:"projectId"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Column      string               `json:"column"`
	Order       int                  `json:"order"`
	Priority    string               `json:"priority"`
	DueDate     *time.Time           `json:"dueDate,omitempty"`
	Assignees   []uuid.UUID          `json:"assignees"`
	Labels      []string             `json:"labels"`
	Attachments []AttachmentResponse `json:"attachments"`
	IsCompleted bool                 `json:"isCompleted"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
	CreatedBy   uuid.UUID            `json:"createdBy"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	UploadedBy  uuid.UUID `json:"uploadedBy"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type ListTasksRequest struct {
	Column   string `query:"column" validate:"omitempty,max=100"`
	Assignee string `query:"assignee" validate:"omitempty,uuid"`
}
