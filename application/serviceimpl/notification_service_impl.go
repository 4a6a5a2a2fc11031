package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/models"
	"taskboard/domain/ports"
	"taskboard/domain/repositories"
	"taskboard/domain/services"
	"taskboard/pkg/apperrors"
	"taskboard/pkg/logger"
)

const unreadCountTTL = 30 * time.Second

type notificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	taskRepo         repositories.TaskRepository
	cache            ports.CachePort
	notifier         *notifier
	dueSoonWindow    time.Duration
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	taskRepo repositories.TaskRepository,
	cache ports.CachePort,
	publisher ports.EventPublisher,
	notificationTTLDays int,
	dueSoonWindowHours int,
) services.NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		taskRepo:         taskRepo,
		cache:            cache,
		notifier:         newNotifier(notificationRepo, publisher, notificationTTLDays),
		dueSoonWindow:    time.Duration(dueSoonWindowHours) * time.Hour,
	}
}

func unreadCountKey(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String()
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uuid.UUID, req *dto.ListNotificationsRequest) ([]*dto.NotificationResponse, int64, error) {
	req.Normalize()

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, req.UnreadOnly, req.Offset(), req.Limit)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list notifications", err)
	}

	return dto.ToNotificationResponses(notifications), total, nil
}

// UnreadCount serves the badge counter. The count is cached briefly; a
// cache outage falls through to the database.
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	key := unreadCountKey(userID)

	if s.cache != nil {
		if count, ok, err := s.cache.GetInt64(ctx, key); err == nil && ok {
			return count, nil
		}
	}

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("failed to count notifications", err)
	}

	if s.cache != nil {
		if err := s.cache.SetInt64(ctx, key, count, unreadCountTTL); err != nil {
			logger.DebugContext(ctx, "unread count cache write failed", "error", err)
		}
	}

	return count, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, notificationID, userID); err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		return apperrors.Internal("failed to mark notification read", err)
	}

	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return apperrors.Internal("failed to mark notifications read", err)
	}

	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *notificationServiceImpl) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.Delete(ctx, notificationID, userID); err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		return apperrors.Internal("failed to delete notification", err)
	}

	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *notificationServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := s.notificationRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, apperrors.Internal("failed to purge notifications", err)
	}

	if removed > 0 {
		logger.InfoContext(ctx, "expired notifications purged", "count", removed)
	}
	return removed, nil
}

// SendDueSoonReminders notifies assignees of incomplete tasks whose due
// date falls inside the configured window. Runs from the daily job.
func (s *notificationServiceImpl) SendDueSoonReminders(ctx context.Context) (int64, error) {
	now := time.Now()

	tasks, err := s.taskRepo.ListDueBetween(ctx, now, now.Add(s.dueSoonWindow))
	if err != nil {
		return 0, apperrors.Internal("failed to list due tasks", err)
	}

	var sent int64
	for _, task := range tasks {
		if len(task.Assignees) == 0 {
			continue
		}
		s.notifier.notifyUsers(ctx, task.Assignees, uuid.Nil,
			models.NotificationTaskDueSoon,
			fmt.Sprintf("Task %q is due %s", task.Title, task.DueDate.Format("Jan 2 15:04")),
			&task.ProjectID, &task.ID)
		sent += int64(len(task.Assignees))
	}

	if sent > 0 {
		logger.InfoContext(ctx, "due-date reminders sent", "count", sent, "tasks", len(tasks))
	}
	return sent, nil
}

func (s *notificationServiceImpl) invalidateUnreadCount(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, unreadCountKey(userID)); err != nil {
		logger.DebugContext(ctx, "unread count cache invalidation failed", "error", err)
	}
}
