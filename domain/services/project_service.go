package services

import (
	"context"

	"github.com/google/uuid"

	"taskboard/domain/dto"
)

type ProjectService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*dto.ProjectResponse, error)
	List(ctx context.Context, userID uuid.UUID, page *dto.PaginationRequest) ([]*dto.ProjectResponse, int64, error)
	Update(ctx context.Context, userID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	UpdateColumns(ctx context.Context, userID, projectID uuid.UUID, req *dto.UpdateColumnsRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error

	AddMember(ctx context.Context, userID, projectID uuid.UUID, req *dto.AddMemberRequest) (*dto.ProjectResponse, error)
	UpdateMemberRole(ctx context.Context, userID, projectID, memberID uuid.UUID, req *dto.UpdateMemberRoleRequest) (*dto.ProjectResponse, error)
	RemoveMember(ctx context.Context, userID, projectID, memberID uuid.UUID) error
}
