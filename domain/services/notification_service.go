package services

import (
	"context"

	"github.com/google/uuid"

	"taskboard/domain/dto"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, req *dto.ListNotificationsRequest) ([]*dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error

	// PurgeExpired removes persisted notifications past their TTL.
	// Returns the number of rows removed.
	PurgeExpired(ctx context.Context) (int64, error)
	// SendDueSoonReminders notifies assignees of tasks due within the
	// configured window. Returns the number of reminders created.
	SendDueSoonReminders(ctx context.Context) (int64, error)
}
