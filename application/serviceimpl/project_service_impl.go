package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"taskboard/domain/dto"
	"taskboard/domain/models"
	"taskboard/domain/ports"
	"taskboard/domain/repositories"
	"taskboard/domain/services"
	"taskboard/pkg/apperrors"
	"taskboard/pkg/logger"
)

type projectServiceImpl struct {
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
	userRepo    repositories.UserRepository
	notifier    *notifier
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	publisher ports.EventPublisher,
	notificationTTLDays int,
) services.ProjectService {
	return &projectServiceImpl{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		notifier:    newNotifier(notificationRepo, publisher, notificationTTLDays),
	}
}

func (s *projectServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	columns := columnsFromRequest(req.Columns)
	if len(columns) == 0 {
		columns = models.DefaultColumns()
	}
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	projectSlug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        req.Name,
		Slug:        projectSlug,
		Description: req.Description,
		OwnerID:     ownerID,
		Columns:     columns,
		Settings:    models.DefaultProjectSettings(),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, apperrors.Internal("failed to create project", err)
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleAdmin,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, apperrors.Internal("failed to add project owner", err)
	}
	project.Members = []models.ProjectMember{*member}

	logger.InfoContext(ctx, "project created", "project_id", project.ID, "owner_id", ownerID)

	return dto.ToProjectResponse(project), nil
}

func (s *projectServiceImpl) Get(ctx context.Context, userID, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, anyMember...); err != nil {
		return nil, err
	}

	return dto.ToProjectResponse(project), nil
}

func (s *projectServiceImpl) List(ctx context.Context, userID uuid.UUID, page *dto.PaginationRequest) ([]*dto.ProjectResponse, int64, error) {
	page.Normalize()

	projects, total, err := s.projectRepo.ListByMember(ctx, userID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list projects", err)
	}

	return dto.ToProjectResponses(projects), total, nil
}

func (s *projectServiceImpl) Update(ctx context.Context, userID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, boardManagers...); err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Settings != nil {
		if req.Settings.AllowMembersToCreateTasks != nil {
			project.Settings.AllowMembersToCreateTasks = *req.Settings.AllowMembersToCreateTasks
		}
		if req.Settings.NotifyOnTaskMove != nil {
			project.Settings.NotifyOnTaskMove = *req.Settings.NotifyOnTaskMove
		}
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, apperrors.Internal("failed to update project", err)
	}

	resp := dto.ToProjectResponse(project)
	s.notifier.boardEvent(project.ID, "projectUpdated", resp)

	return resp, nil
}

func (s *projectServiceImpl) UpdateColumns(ctx context.Context, userID, projectID uuid.UUID, req *dto.UpdateColumnsRequest) (*dto.ProjectResponse, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, boardManagers...); err != nil {
		return nil, err
	}

	newColumns := columnsFromRequest(req.Columns)
	if err := validateColumns(newColumns); err != nil {
		return nil, err
	}

	// A column can only be removed once it is empty.
	for _, old := range project.Columns {
		if newColumns.Contains(old.Name) {
			continue
		}
		count, err := s.taskRepo.CountByColumn(ctx, project.ID, old.Name)
		if err != nil {
			return nil, apperrors.Internal("failed to count tasks", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict(fmt.Sprintf("Column %q still contains tasks", old.Name))
		}
	}

	project.Columns = newColumns
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, apperrors.Internal("failed to update columns", err)
	}

	resp := dto.ToProjectResponse(project)
	s.notifier.boardEvent(project.ID, "projectUpdated", resp)

	return resp, nil
}

func (s *projectServiceImpl) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}

	if _, err := authorize(project, userID, adminsOnly...); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteByProject(ctx, projectID); err != nil {
		return apperrors.Internal("failed to delete project tasks", err)
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return apperrors.Internal("failed to delete project", err)
	}

	logger.InfoContext(ctx, "project deleted", "project_id", projectID, "user_id", userID)

	s.notifier.boardEvent(projectID, "projectDeleted", payload{"projectId": projectID})

	return nil
}

func (s *projectServiceImpl) AddMember(ctx context.Context, userID, projectID uuid.UUID, req *dto.AddMemberRequest) (*dto.ProjectResponse, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, boardManagers...); err != nil {
		return nil, err
	}

	role := models.MemberRole(req.Role)
	if !role.Valid() {
		return nil, apperrors.Validation("Invalid member role")
	}

	if project.IsMember(req.UserID) {
		return nil, apperrors.Conflict("User is already a member of this project")
	}

	newUser, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil || newUser == nil {
		return nil, apperrors.NotFound("User not found")
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, apperrors.Internal("failed to add member", err)
	}
	member.User = newUser
	project.Members = append(project.Members, *member)

	s.notifier.notifyUsers(ctx, []uuid.UUID{req.UserID}, userID,
		models.NotificationMemberAdded,
		fmt.Sprintf("You were added to project %q", project.Name),
		&projectID, nil)

	resp := dto.ToProjectResponse(project)
	s.notifier.boardEvent(projectID, "memberAdded", resp)

	return resp, nil
}

func (s *projectServiceImpl) UpdateMemberRole(ctx context.Context, userID, projectID, memberID uuid.UUID, req *dto.UpdateMemberRoleRequest) (*dto.ProjectResponse, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, boardManagers...); err != nil {
		return nil, err
	}

	role := models.MemberRole(req.Role)
	if !role.Valid() {
		return nil, apperrors.Validation("Invalid member role")
	}

	currentRole, ok := project.RoleOf(memberID)
	if !ok {
		return nil, apperrors.NotFound("Member not found")
	}

	// Demoting the last admin would leave the project unmanageable.
	if currentRole == models.RoleAdmin && role != models.RoleAdmin && project.AdminCount() == 1 {
		return nil, apperrors.Conflict("A project must keep at least one admin")
	}

	if err := s.projectRepo.UpdateMemberRole(ctx, projectID, memberID, role); err != nil {
		return nil, apperrors.Internal("failed to update member role", err)
	}
	for i := range project.Members {
		if project.Members[i].UserID == memberID {
			project.Members[i].Role = role
		}
	}

	resp := dto.ToProjectResponse(project)
	s.notifier.boardEvent(projectID, "memberUpdated", resp)

	return resp, nil
}

func (s *projectServiceImpl) RemoveMember(ctx context.Context, userID, projectID, memberID uuid.UUID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}

	// Members may remove themselves; removing anyone else takes an admin
	// or project manager.
	if userID == memberID {
		if _, err := authorize(project, userID, anyMember...); err != nil {
			return err
		}
	} else {
		if _, err := authorize(project, userID, boardManagers...); err != nil {
			return err
		}
	}

	role, ok := project.RoleOf(memberID)
	if !ok {
		return apperrors.NotFound("Member not found")
	}

	if role == models.RoleAdmin && project.AdminCount() == 1 {
		return apperrors.Conflict("A project must keep at least one admin")
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, memberID); err != nil {
		return apperrors.Internal("failed to remove member", err)
	}

	if userID != memberID {
		s.notifier.notifyUsers(ctx, []uuid.UUID{memberID}, userID,
			models.NotificationMemberRemoved,
			fmt.Sprintf("You were removed from project %q", project.Name),
			&projectID, nil)
	}

	s.notifier.boardEvent(projectID, "memberRemoved", payload{
		"projectId": projectID,
		"userId":    memberID,
	})

	return nil
}

func (s *projectServiceImpl) loadProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, apperrors.NotFound("Project not found")
	}
	return project, nil
}

// uniqueSlug derives a URL slug from the project name, suffixing a counter
// on collision.
func (s *projectServiceImpl) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "project"
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.projectRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", apperrors.Internal("failed to check slug", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func columnsFromRequest(cols []dto.ColumnRequest) models.ColumnList {
	out := make(models.ColumnList, 0, len(cols))
	for _, c := range cols {
		out = append(out, models.BoardColumn{Name: c.Name, Color: c.Color})
	}
	return out
}

func validateColumns(columns models.ColumnList) error {
	if len(columns) == 0 {
		return apperrors.Validation("A project needs at least one column")
	}

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return apperrors.Validation("Column names must not be empty")
		}
		if seen[c.Name] {
			return apperrors.Validation(fmt.Sprintf("Duplicate column name %q", c.Name))
		}
		seen[c.Name] = true
	}
	return nil
}
