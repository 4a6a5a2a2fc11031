package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskboard/domain/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	// GetByID loads the project with its members preloaded.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ListByMember returns projects where the user appears in project_members.
	ListByMember(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Project, int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *models.ProjectMember) error
	UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role models.MemberRole) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
}
