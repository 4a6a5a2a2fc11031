package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Attachment is a file linked to a task, stored as JSONB. The blob itself
// lives in object storage; this records where.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	URL         string    `json:"url"`
	StorageKey  string    `json:"storageKey,omitempty"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	UploadedBy  uuid.UUID `json:"uploadedBy"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type Attachments []Attachment

// Scan implements sql.Scanner for Attachments
func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = Attachments{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value implements driver.Valuer for Attachments
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Task is one kanban card. Position is the zero-based slot within the
// task's (project, column) pair; positions in a column are always dense:
// 0..n-1 with no gaps or duplicates.
type Task struct {
	ID          uuid.UUID    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_project_column"`
	Title       string       `gorm:"size:255;not null"`
	Description string       `gorm:"type:text"`
	Column      string       `gorm:"column:board_column;size:100;not null;index:idx_tasks_project_column"`
	Position    int          `gorm:"column:position;not null;default:0"`
	Priority    TaskPriority `gorm:"size:10;default:'medium'"`
	DueDate     *time.Time   `gorm:"type:timestamptz;index"`
	Assignees   UUIDList     `gorm:"type:jsonb;default:'[]'"`
	Labels      StringList   `gorm:"type:jsonb;default:'[]'"`
	Attachments Attachments  `gorm:"type:jsonb;default:'[]'"`
	IsCompleted bool         `gorm:"default:false"`
	CompletedAt *time.Time   `gorm:"type:timestamptz"`
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID"`
	Creator *User    `gorm:"foreignKey:CreatedBy"`
}

func (Task) TableName() string {
	return "tasks"
}

// SyncCompletion derives IsCompleted and CompletedAt from the task's
// current column. Called explicitly by services after any column change;
// there are no save hooks.
func (t *Task) SyncCompletion(now time.Time) {
	completed := t.Column == DoneColumn
	if completed && !t.IsCompleted {
		t.IsCompleted = true
		ts := now
		t.CompletedAt = &ts
		return
	}
	if !completed && t.IsCompleted {
		t.IsCompleted = false
		t.CompletedAt = nil
	}
}

// IsAssigned reports whether the user is on the task's assignee list.
func (t *Task) IsAssigned(userID uuid.UUID) bool {
	return t.Assignees.Contains(userID)
}

// IsOverdue reports whether the task is past due and not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate) && !t.IsCompleted
}
