package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/domain/models"
	"taskboard/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByProject(ctx context.Context, projectID uuid.UUID, column string, assignee *uuid.UUID) ([]*models.Task, error) {
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if column != "" {
		q = q.Where("board_column = ?", column)
	}
	if assignee != nil {
		q = q.Where("assignees @> ?", `["`+assignee.String()+`"]`)
	}

	var tasks []*models.Task
	err := q.Order("board_column ASC, position ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}

func (r *TaskRepositoryImpl) MaxPosition(ctx context.Context, projectID uuid.UUID, column string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ? AND board_column = ?", projectID, column).
		Select("MAX(position)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *TaskRepositoryImpl) ShiftRange(ctx context.Context, projectID uuid.UUID, column string, from, to, delta int, excludeID uuid.UUID) error {
	q := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ? AND board_column = ? AND position >= ?", projectID, column, from)
	if to != repositories.UnboundedShift {
		q = q.Where("position <= ?", to)
	}
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	return q.Update("position", gorm.Expr("position + ?", delta)).Error
}

func (r *TaskRepositoryImpl) ListDueBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("is_completed = false AND due_date >= ? AND due_date < ?", start, end).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.Task{}).Error
}

func (r *TaskRepositoryImpl) CountByColumn(ctx context.Context, projectID uuid.UUID, column string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ? AND board_column = ?", projectID, column).
		Count(&count).Error
	return count, err
}
