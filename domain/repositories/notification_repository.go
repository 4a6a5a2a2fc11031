package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskboard/domain/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead marks one notification read; the row must belong to userID.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	// DeleteExpired purges rows whose ExpiresAt is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
