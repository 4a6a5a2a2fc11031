package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/domain/models"
	"taskboard/domain/repositories"
	"taskboard/pkg/apperrors"
)

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]*models.Notification, int64, error) {
	now := time.Now()
	q := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND expires_at > ?", userID, now)
	if unreadOnly {
		q = q.Where("is_read = false")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*models.Notification
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false AND expires_at > ?", userID, time.Now()).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Notification not found")
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Notification not found")
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
