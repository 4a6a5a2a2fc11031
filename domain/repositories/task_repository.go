package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskboard/domain/models"
)

// UnboundedShift marks a ShiftRange with no upper bound.
const UnboundedShift = -1

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	// ListByProject returns tasks ordered by (column, position). Column and
	// assignee filters are optional.
	ListByProject(ctx context.Context, projectID uuid.UUID, column string, assignee *uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error

	// MaxPosition returns the highest position in (project, column), or -1
	// when the column is empty.
	MaxPosition(ctx context.Context, projectID uuid.UUID, column string) (int, error)
	// ShiftRange adds delta to the position of every task in (project,
	// column) whose position satisfies from <= position <= to. Pass
	// UnboundedShift as to for no upper bound. excludeID skips one task.
	ShiftRange(ctx context.Context, projectID uuid.UUID, column string, from, to, delta int, excludeID uuid.UUID) error

	// ListDueBetween returns incomplete tasks with a due date inside
	// [start, end), across all projects. Used by the reminder job.
	ListDueBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	CountByColumn(ctx context.Context, projectID uuid.UUID, column string) (int64, error)
}
