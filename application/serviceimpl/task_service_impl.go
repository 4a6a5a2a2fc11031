package serviceimpl

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/models"
	"taskboard/domain/ports"
	"taskboard/domain/repositories"
	"taskboard/domain/services"
	"taskboard/pkg/apperrors"
	"taskboard/pkg/keylock"
	"taskboard/pkg/logger"
)

type taskServiceImpl struct {
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
	storage     ports.StoragePort
	notifier    *notifier

	// columnLocks serializes reorders per (project, column) so concurrent
	// moves cannot interleave their shift-then-write sequences.
	columnLocks *keylock.KeyLock
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	notificationRepo repositories.NotificationRepository,
	storage ports.StoragePort,
	publisher ports.EventPublisher,
	notificationTTLDays int,
) services.TaskService {
	return &taskServiceImpl{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		storage:     storage,
		notifier:    newNotifier(notificationRepo, publisher, notificationTTLDays),
		columnLocks: keylock.New(),
	}
}

// columnKey identifies one (project, column) ordering domain.
func columnKey(projectID uuid.UUID, column string) string {
	return projectID.String() + "|" + column
}

func (s *taskServiceImpl) Create(ctx context.Context, userID, projectID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, err := authorize(project, userID, taskEditors...)
	if err != nil {
		return nil, err
	}
	if role == models.RoleMember && !project.Settings.AllowMembersToCreateTasks {
		return nil, apperrors.PermissionDenied("Members are not allowed to create tasks in this project")
	}

	if !project.HasColumn(req.Column) {
		return nil, apperrors.Validation(fmt.Sprintf("Column %q does not exist in this project", req.Column))
	}
	if err := validateAssignees(project, req.Assignees); err != nil {
		return nil, err
	}

	priority := models.TaskPriority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Column:      req.Column,
		Priority:    priority,
		DueDate:     req.DueDate,
		Assignees:   models.UUIDList(req.Assignees),
		Labels:      models.StringList(req.Labels),
		CreatedBy:   userID,
	}
	task.SyncCompletion(time.Now())

	key := columnKey(projectID, req.Column)
	s.columnLocks.Lock(key)
	defer s.columnLocks.Unlock(key)

	// New tasks append at the tail of their column.
	maxPos, err := s.taskRepo.MaxPosition(ctx, projectID, req.Column)
	if err != nil {
		return nil, apperrors.Internal("failed to determine task position", err)
	}
	task.Position = maxPos + 1

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, apperrors.Internal("failed to create task", err)
	}

	logger.InfoContext(ctx, "task created",
		"task_id", task.ID,
		"project_id", projectID,
		"column", task.Column,
		"position", task.Position,
	)

	s.notifier.notifyUsers(ctx, req.Assignees, userID,
		models.NotificationTaskAssigned,
		fmt.Sprintf("You were assigned to task %q", task.Title),
		&projectID, &task.ID)

	resp := dto.ToTaskResponse(task)
	s.notifier.boardEvent(projectID, "taskCreated", resp)

	return resp, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, userID, taskID uuid.UUID) (*dto.TaskResponse, error) {
	task, project, err := s.loadTaskAndProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, anyMember...); err != nil {
		return nil, err
	}

	return dto.ToTaskResponse(task), nil
}

func (s *taskServiceImpl) ListByProject(ctx context.Context, userID, projectID uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, anyMember...); err != nil {
		return nil, err
	}

	var assignee *uuid.UUID
	if req.Assignee != "" {
		id, err := uuid.Parse(req.Assignee)
		if err != nil {
			return nil, apperrors.Validation("Invalid assignee ID")
		}
		assignee = &id
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID, req.Column, assignee)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks", err)
	}

	return dto.ToTaskResponses(tasks), nil
}

// withTaskLocked runs fn with the task's column lock held, plus the lock
// for extraColumn when a cross-column move is intended. The task is
// re-read after acquiring the locks; if another move changed its column in
// the meantime, the locks are dropped and the acquisition retried so fn
// always sees the task under the lock that owns it.
func (s *taskServiceImpl) withTaskLocked(ctx context.Context, taskID uuid.UUID, extraColumn string, fn func(task *models.Task) error) error {
	for {
		task, err := s.taskRepo.GetByID(ctx, taskID)
		if err != nil || task == nil {
			return apperrors.NotFound("Task not found")
		}

		keys := []string{columnKey(task.ProjectID, task.Column)}
		if extraColumn != "" && extraColumn != task.Column {
			keys = append(keys, columnKey(task.ProjectID, extraColumn))
		}
		s.columnLocks.Lock(keys...)

		fresh, err := s.taskRepo.GetByID(ctx, taskID)
		if err != nil || fresh == nil {
			s.columnLocks.Unlock(keys...)
			return apperrors.NotFound("Task not found")
		}
		if fresh.Column != task.Column {
			s.columnLocks.Unlock(keys...)
			continue
		}

		err = fn(fresh)
		s.columnLocks.Unlock(keys...)
		return err
	}
}

func (s *taskServiceImpl) Update(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, project, err := s.loadTaskAndProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, taskEditors...); err != nil {
		return nil, err
	}

	if req.Assignees != nil {
		if err := validateAssignees(project, *req.Assignees); err != nil {
			return nil, err
		}
	}

	columnChange := ""
	if req.Column != nil && *req.Column != task.Column {
		if !project.HasColumn(*req.Column) {
			return nil, apperrors.Validation(fmt.Sprintf("Column %q does not exist in this project", *req.Column))
		}
		columnChange = *req.Column
	}

	var updated *models.Task
	var newlyAssigned []uuid.UUID

	err = s.withTaskLocked(ctx, taskID, columnChange, func(task *models.Task) error {
		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Priority != nil {
			task.Priority = models.TaskPriority(*req.Priority)
		}
		if req.ClearDue {
			task.DueDate = nil
		} else if req.DueDate != nil {
			task.DueDate = req.DueDate
		}
		if req.Labels != nil {
			task.Labels = models.StringList(*req.Labels)
		}
		if req.Assignees != nil {
			for _, id := range *req.Assignees {
				if !task.Assignees.Contains(id) {
					newlyAssigned = append(newlyAssigned, id)
				}
			}
			task.Assignees = models.UUIDList(*req.Assignees)
		}

		// A column change through update lands the task at the tail of
		// the target column, compacting the column it left.
		if columnChange != "" && task.Column != columnChange {
			if err := s.taskRepo.ShiftRange(ctx, task.ProjectID, task.Column, task.Position+1, repositories.UnboundedShift, -1, task.ID); err != nil {
				return apperrors.Internal("failed to compact source column", err)
			}

			maxPos, err := s.taskRepo.MaxPosition(ctx, task.ProjectID, columnChange)
			if err != nil {
				return apperrors.Internal("failed to determine task position", err)
			}
			task.Column = columnChange
			task.Position = maxPos + 1
			task.SyncCompletion(time.Now())
		}

		if err := s.taskRepo.Update(ctx, task); err != nil {
			return apperrors.Internal("failed to update task", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(newlyAssigned) > 0 {
		s.notifier.notifyUsers(ctx, newlyAssigned, userID,
			models.NotificationTaskAssigned,
			fmt.Sprintf("You were assigned to task %q", updated.Title),
			&updated.ProjectID, &updated.ID)
	}

	resp := dto.ToTaskResponse(updated)
	s.notifier.boardEvent(updated.ProjectID, "taskUpdated", resp)

	return resp, nil
}

func (s *taskServiceImpl) Move(ctx context.Context, userID, taskID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error) {
	_, project, err := s.loadTaskAndProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, taskEditors...); err != nil {
		return nil, err
	}

	if !project.HasColumn(req.Column) {
		return nil, apperrors.Validation(fmt.Sprintf("Column %q does not exist in this project", req.Column))
	}

	var moved *models.Task
	var completedNow bool

	err = s.withTaskLocked(ctx, taskID, req.Column, func(task *models.Task) error {
		wasCompleted := task.IsCompleted

		var err error
		if req.Column == task.Column {
			err = s.reorderWithinColumn(ctx, task, req.Order)
		} else {
			err = s.moveAcrossColumns(ctx, task, req.Column, req.Order)
		}
		if err != nil {
			return err
		}

		moved = task
		completedNow = task.IsCompleted && !wasCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "task moved",
		"task_id", moved.ID,
		"project_id", moved.ProjectID,
		"column", moved.Column,
		"position", moved.Position,
	)

	if project.Settings.NotifyOnTaskMove {
		s.notifier.notifyUsers(ctx, moved.Assignees, userID,
			models.NotificationTaskMoved,
			fmt.Sprintf("Task %q was moved to %s", moved.Title, moved.Column),
			&moved.ProjectID, &moved.ID)
	}
	if completedNow {
		s.notifier.notifyUsers(ctx, moved.Assignees, userID,
			models.NotificationTaskCompleted,
			fmt.Sprintf("Task %q was completed", moved.Title),
			&moved.ProjectID, &moved.ID)
	}

	resp := dto.ToTaskResponse(moved)
	s.notifier.boardEvent(moved.ProjectID, "taskMoved", resp)

	return resp, nil
}

// reorderWithinColumn moves the task to slot dst inside its current
// column, caller holding the column lock. Every task between the old and
// new slot shifts by one in the opposite direction, so positions stay
// dense.
func (s *taskServiceImpl) reorderWithinColumn(ctx context.Context, task *models.Task, dst int) error {
	maxPos, err := s.taskRepo.MaxPosition(ctx, task.ProjectID, task.Column)
	if err != nil {
		return apperrors.Internal("failed to determine task position", err)
	}

	// Clamp the requested slot into the valid range.
	if dst < 0 {
		dst = 0
	}
	if dst > maxPos {
		dst = maxPos
	}

	cur := task.Position
	if dst == cur {
		return nil
	}

	if dst > cur {
		// Moving down: everything in (cur, dst] steps up one slot.
		err = s.taskRepo.ShiftRange(ctx, task.ProjectID, task.Column, cur+1, dst, -1, task.ID)
	} else {
		// Moving up: everything in [dst, cur) steps down one slot.
		err = s.taskRepo.ShiftRange(ctx, task.ProjectID, task.Column, dst, cur-1, +1, task.ID)
	}
	if err != nil {
		return apperrors.Internal("failed to shift tasks", err)
	}

	task.Position = dst
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return apperrors.Internal("failed to update task", err)
	}
	return nil
}

// moveAcrossColumns removes the task from its column, compacts what it
// left behind, opens a gap at dst in the target column and drops the task
// in. The caller holds both column locks; KeyLock orders acquisitions so
// two opposite moves cannot deadlock.
func (s *taskServiceImpl) moveAcrossColumns(ctx context.Context, task *models.Task, dstColumn string, dst int) error {
	dstMax, err := s.taskRepo.MaxPosition(ctx, task.ProjectID, dstColumn)
	if err != nil {
		return apperrors.Internal("failed to determine task position", err)
	}

	// The target column accepts slots 0..len; len appends at the tail.
	if dst < 0 {
		dst = 0
	}
	if dst > dstMax+1 {
		dst = dstMax + 1
	}

	if err := s.taskRepo.ShiftRange(ctx, task.ProjectID, task.Column, task.Position+1, repositories.UnboundedShift, -1, task.ID); err != nil {
		return apperrors.Internal("failed to compact source column", err)
	}
	if err := s.taskRepo.ShiftRange(ctx, task.ProjectID, dstColumn, dst, repositories.UnboundedShift, +1, task.ID); err != nil {
		return apperrors.Internal("failed to open target slot", err)
	}

	task.Column = dstColumn
	task.Position = dst
	task.SyncCompletion(time.Now())

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return apperrors.Internal("failed to update task", err)
	}
	return nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, project, err := s.loadTaskAndProject(ctx, taskID)
	if err != nil {
		return err
	}

	if _, err := authorize(project, userID, taskEditors...); err != nil {
		return err
	}

	var deleted *models.Task
	err = s.withTaskLocked(ctx, taskID, "", func(task *models.Task) error {
		if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
			return apperrors.Internal("failed to delete task", err)
		}
		// Close the gap left by the deleted task.
		if err := s.taskRepo.ShiftRange(ctx, task.ProjectID, task.Column, task.Position+1, repositories.UnboundedShift, -1, uuid.Nil); err != nil {
			return apperrors.Internal("failed to compact column", err)
		}
		deleted = task
		return nil
	})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "task deleted", "task_id", taskID, "project_id", task.ProjectID)

	s.notifier.boardEvent(task.ProjectID, "taskDeleted", payload{
		"taskId":    taskID,
		"projectId": deleted.ProjectID,
		"column":    deleted.Column,
	})

	return nil
}

func (s *taskServiceImpl) AddAttachment(ctx context.Context, userID, taskID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (*dto.TaskResponse, error) {
	_, project, err := s.loadTaskAndProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, taskEditors...); err != nil {
		return nil, err
	}

	if s.storage == nil {
		return nil, apperrors.Internal("attachment storage is not configured", nil)
	}

	attachmentID := uuid.New()
	key := fmt.Sprintf("tasks/%s/%s%s", taskID, attachmentID, path.Ext(fileName))

	info, err := s.storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, apperrors.Internal("failed to store attachment", err)
	}

	attachment := models.Attachment{
		ID:          attachmentID,
		FileName:    fileName,
		URL:         info.URL,
		StorageKey:  info.Key,
		Size:        info.Size,
		ContentType: contentType,
		UploadedBy:  userID,
		UploadedAt:  time.Now(),
	}

	// The row is re-read and saved under the column lock; a move landing
	// during the upload keeps its column and position.
	var updated *models.Task
	err = s.withTaskLocked(ctx, taskID, "", func(task *models.Task) error {
		task.Attachments = append(task.Attachments, attachment)
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return apperrors.Internal("failed to update task", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		// The row never referenced the blob; drop it.
		if derr := s.storage.Delete(ctx, info.Key); derr != nil {
			logger.WarnContext(ctx, "failed to delete attachment blob", "attachment_id", attachmentID, "error", derr)
		}
		return nil, err
	}

	resp := dto.ToTaskResponse(updated)
	s.notifier.boardEvent(updated.ProjectID, "taskUpdated", resp)

	return resp, nil
}

func (s *taskServiceImpl) RemoveAttachment(ctx context.Context, userID, taskID, attachmentID uuid.UUID) (*dto.TaskResponse, error) {
	_, project, err := s.loadTaskAndProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := authorize(project, userID, taskEditors...); err != nil {
		return nil, err
	}

	var updated *models.Task
	var removed models.Attachment
	err = s.withTaskLocked(ctx, taskID, "", func(task *models.Task) error {
		idx := -1
		for i, a := range task.Attachments {
			if a.ID == attachmentID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return apperrors.NotFound("Attachment not found")
		}

		removed = task.Attachments[idx]
		task.Attachments = append(task.Attachments[:idx], task.Attachments[idx+1:]...)

		if err := s.taskRepo.Update(ctx, task); err != nil {
			return apperrors.Internal("failed to update task", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.storage != nil && removed.StorageKey != "" {
		// Blob cleanup is best effort; the row no longer references it.
		if err := s.storage.Delete(ctx, removed.StorageKey); err != nil {
			logger.WarnContext(ctx, "failed to delete attachment blob", "attachment_id", attachmentID, "error", err)
		}
	}

	resp := dto.ToTaskResponse(updated)
	s.notifier.boardEvent(updated.ProjectID, "taskUpdated", resp)

	return resp, nil
}

func (s *taskServiceImpl) loadProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, apperrors.NotFound("Project not found")
	}
	return project, nil
}

func (s *taskServiceImpl) loadTaskAndProject(ctx context.Context, taskID uuid.UUID) (*models.Task, *models.Project, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil || task == nil {
		return nil, nil, apperrors.NotFound("Task not found")
	}

	project, err := s.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil || project == nil {
		return nil, nil, apperrors.NotFound("Project not found")
	}

	return task, project, nil
}

// validateAssignees ensures every assignee belongs to the project.
func validateAssignees(project *models.Project, assignees []uuid.UUID) error {
	for _, id := range assignees {
		if !project.IsMember(id) {
			return apperrors.Validation("All assignees must be project members")
		}
	}
	return nil
}
