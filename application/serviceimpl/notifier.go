package serviceimpl

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/models"
	"taskboard/domain/ports"
	"taskboard/domain/repositories"
	"taskboard/pkg/logger"
)

// payload is a free-form event body.
type payload map[string]any

// notifier persists per-user notifications and pushes the matching
// real-time events. Failures are logged and swallowed: a notification that
// could not be written never fails the operation that triggered it.
type notifier struct {
	notificationRepo repositories.NotificationRepository
	publisher        ports.EventPublisher
	ttl              time.Duration
}

func newNotifier(repo repositories.NotificationRepository, publisher ports.EventPublisher, ttlDays int) *notifier {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	return &notifier{
		notificationRepo: repo,
		publisher:        publisher,
		ttl:              time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// notifyUsers writes one notification per recipient and pushes it to each
// recipient's user channel. The actor is skipped; nobody is notified about
// their own action.
func (n *notifier) notifyUsers(ctx context.Context, recipients []uuid.UUID, actorID uuid.UUID, typ models.NotificationType, message string, projectID, taskID *uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(recipients))
	now := time.Now()

	var actor *uuid.UUID
	if actorID != uuid.Nil {
		actor = &actorID
	}

	var rows []*models.Notification
	for _, userID := range recipients {
		if userID == actorID || seen[userID] {
			continue
		}
		seen[userID] = true

		rows = append(rows, &models.Notification{
			UserID:    userID,
			Type:      typ,
			Message:   message,
			ProjectID: projectID,
			TaskID:    taskID,
			ActorID:   actor,
			ExpiresAt: now.Add(n.ttl),
		})
	}

	if len(rows) == 0 {
		return
	}

	if err := n.notificationRepo.CreateBatch(ctx, rows); err != nil {
		logger.ErrorContext(ctx, "failed to persist notifications", "type", string(typ), "error", err)
		return
	}

	for _, row := range rows {
		n.publisher.PublishToUser(row.UserID, ports.Event{
			Type:    "notification",
			Payload: dto.ToNotificationResponse(row),
		})
	}
}

// boardEvent pushes a project-channel event so every open board view of
// the project refreshes.
func (n *notifier) boardEvent(projectID uuid.UUID, eventType string, payload any) {
	n.publisher.PublishToProject(projectID, ports.Event{
		Type:    eventType,
		Payload: payload,
	})
}
