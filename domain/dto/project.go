package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Columns     []ColumnRequest `json:"columns" validate:"omitempty,min=1,max=20,dive"`
}

type ColumnRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

type UpdateProjectRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string                 `json:"description" validate:"omitempty,max=2000"`
	Settings    *ProjectSettingsRequest `json:"settings"`
}

type ProjectSettingsRequest struct {
	AllowMembersToCreateTasks *bool `json:"allowMembersToCreateTasks"`
	NotifyOnTaskMove          *bool `json:"notifyOnTaskMove"`
}

type UpdateColumnsRequest struct {
	Columns []ColumnRequest `json:"columns" validate:"required,min=1,max=20,dive"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=admin project_manager member viewer"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin project_manager member viewer"`
}

type ProjectMemberResponse struct {
	UserID   uuid.UUID     `json:"userId"`
	Role     string        `json:"role"`
	JoinedAt time.Time     `json:"joinedAt"`
	User     *UserResponse `json:"user,omitempty"`
}

type ColumnResponse struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type ProjectSettingsResponse struct {
	AllowMembersToCreateTasks bool `json:"allowMembersToCreateTasks"`
	NotifyOnTaskMove          bool `json:"notifyOnTaskMove"`
}

type ProjectResponse struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Slug        string                  `json:"slug"`
	Description string                  `json:"description,omitempty"`
	OwnerID     uuid.UUID               `json:"ownerId"`
	Columns     []ColumnResponse        `json:"columns"`
	Settings    ProjectSettingsResponse `json:"settings"`
	Members     []ProjectMemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}
