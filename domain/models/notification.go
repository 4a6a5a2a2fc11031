package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTaskAssigned   NotificationType = "task_assigned"
	NotificationTaskUnassigned NotificationType = "task_unassigned"
	NotificationTaskMoved      NotificationType = "task_moved"
	NotificationTaskCompleted  NotificationType = "task_completed"
	NotificationTaskDueSoon    NotificationType = "task_due_soon"
	NotificationMemberAdded    NotificationType = "member_added"
	NotificationMemberRemoved  NotificationType = "member_removed"
	NotificationProjectUpdated NotificationType = "project_updated"
)

// Notification is a persisted per-user message. Rows expire at ExpiresAt
// and are purged by a background job; real-time delivery goes through the
// websocket hub separately.
type Notification struct {
	ID        uuid.UUID        `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user_read"`
	Type      NotificationType `gorm:"size:30;not null"`
	Message   string           `gorm:"type:text;not null"`
	ProjectID *uuid.UUID       `gorm:"type:uuid"`
	TaskID    *uuid.UUID       `gorm:"type:uuid"`
	ActorID   *uuid.UUID       `gorm:"type:uuid"`
	IsRead    bool             `gorm:"default:false;index:idx_notifications_user_read"`
	ExpiresAt time.Time        `gorm:"type:timestamptz;not null;index"`

	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsExpired(now time.Time) bool {
	return now.After(n.ExpiresAt)
}
