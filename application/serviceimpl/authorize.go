package serviceimpl

import (
	"github.com/google/uuid"

	"taskboard/domain/models"
	"taskboard/pkg/apperrors"
)

// authorize is the single membership/role gate for project-scoped
// operations. Non-members get NotFound rather than PermissionDenied so the
// response does not reveal that the project exists. Members whose role is
// not in allowed get PermissionDenied.
func authorize(project *models.Project, userID uuid.UUID, allowed ...models.MemberRole) (models.MemberRole, error) {
	role, ok := project.RoleOf(userID)
	if !ok {
		return "", apperrors.NotFound("Project not found")
	}

	for _, a := range allowed {
		if role == a {
			return role, nil
		}
	}
	return role, apperrors.PermissionDenied("You do not have permission to perform this action")
}

// Role sets used across the services.
var (
	anyMember     = []models.MemberRole{models.RoleAdmin, models.RoleProjectManager, models.RoleMember, models.RoleViewer}
	taskEditors   = []models.MemberRole{models.RoleAdmin, models.RoleProjectManager, models.RoleMember}
	boardManagers = []models.MemberRole{models.RoleAdmin, models.RoleProjectManager}
	adminsOnly    = []models.MemberRole{models.RoleAdmin}
)
