package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/domain/dto"
	"taskboard/domain/models"
	"taskboard/pkg/apperrors"
)

func seedNotification(t *testing.T, repo *fakeNotificationRepo, userID uuid.UUID, read bool, expiresAt time.Time) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:    userID,
		Type:      models.NotificationTaskAssigned,
		Message:   "hello",
		IsRead:    read,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestNotificationService_ListAndUnreadFilter(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	future := time.Now().Add(time.Hour)

	seedNotification(t, repo, userID, false, future)
	seedNotification(t, repo, userID, true, future)
	seedNotification(t, repo, uuid.New(), false, future)

	svc := NewNotificationService(repo, newFakeTaskRepo(), nil, nil, 30, 24)

	all, total, err := svc.List(context.Background(), userID, &dto.ListNotificationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	unread, total, err := svc.List(context.Background(), userID, &dto.ListNotificationsRequest{UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, unread, 1)
	assert.False(t, unread[0].IsRead)
}

func TestNotificationService_UnreadCountUsesCache(t *testing.T) {
	repo := newFakeNotificationRepo()
	cache := newFakeCache()
	userID := uuid.New()
	future := time.Now().Add(time.Hour)

	seedNotification(t, repo, userID, false, future)
	seedNotification(t, repo, userID, false, future)

	svc := NewNotificationService(repo, newFakeTaskRepo(), cache, nil, 30, 24)
	ctx := context.Background()

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Zero(t, cache.hits, "first read misses and fills the cache")

	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 1, cache.hits, "second read is served from cache")

	// Marking read invalidates the cached counter.
	rows, _, err := repo.ListByUser(ctx, userID, true, 0, 10)
	require.NoError(t, err)
	require.NoError(t, svc.MarkRead(ctx, userID, rows[0].ID))

	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationService_WorksWithoutCache(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	seedNotification(t, repo, userID, false, time.Now().Add(time.Hour))

	svc := NewNotificationService(repo, newFakeTaskRepo(), nil, nil, 30, 24)

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationService_MarkReadOwnership(t *testing.T) {
	repo := newFakeNotificationRepo()
	owner := uuid.New()
	stranger := uuid.New()
	n := seedNotification(t, repo, owner, false, time.Now().Add(time.Hour))

	svc := NewNotificationService(repo, newFakeTaskRepo(), nil, nil, 30, 24)
	ctx := context.Background()

	err := svc.MarkRead(ctx, stranger, n.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err), "other users' rows are invisible")

	require.NoError(t, svc.MarkRead(ctx, owner, n.ID))
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	future := time.Now().Add(time.Hour)
	seedNotification(t, repo, userID, false, future)
	seedNotification(t, repo, userID, false, future)

	svc := NewNotificationService(repo, newFakeTaskRepo(), nil, nil, 30, 24)
	ctx := context.Background()

	require.NoError(t, svc.MarkAllRead(ctx, userID))

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_PurgeExpired(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()

	seedNotification(t, repo, userID, false, time.Now().Add(-time.Hour))
	keep := seedNotification(t, repo, userID, false, time.Now().Add(time.Hour))

	svc := NewNotificationService(repo, newFakeTaskRepo(), nil, nil, 30, 24)

	removed, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	rows, _, err := repo.ListByUser(context.Background(), userID, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keep.ID, rows[0].ID)
}

func TestNotificationService_DueSoonReminders(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	taskRepo := newFakeTaskRepo()
	pub := newCapturePublisher()
	ctx := context.Background()

	assignee := uuid.New()
	projectID := uuid.New()

	soon := time.Now().Add(2 * time.Hour)
	farOut := time.Now().Add(72 * time.Hour)

	require.NoError(t, taskRepo.Create(ctx, &models.Task{
		ProjectID: projectID, Title: "due soon", Column: "To Do",
		DueDate: &soon, Assignees: models.UUIDList{assignee}, CreatedBy: assignee,
	}))
	require.NoError(t, taskRepo.Create(ctx, &models.Task{
		ProjectID: projectID, Title: "due later", Column: "To Do",
		DueDate: &farOut, Assignees: models.UUIDList{assignee}, CreatedBy: assignee,
	}))
	require.NoError(t, taskRepo.Create(ctx, &models.Task{
		ProjectID: projectID, Title: "unassigned", Column: "To Do",
		DueDate: &soon, CreatedBy: assignee,
	}))
	require.NoError(t, taskRepo.Create(ctx, &models.Task{
		ProjectID: projectID, Title: "already done", Column: "Done",
		DueDate: &soon, Assignees: models.UUIDList{assignee}, IsCompleted: true, CreatedBy: assignee,
	}))

	svc := NewNotificationService(notifRepo, taskRepo, nil, pub, 30, 24)

	sent, err := svc.SendDueSoonReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sent)

	rows, _, err := notifRepo.ListByUser(ctx, assignee, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationTaskDueSoon, rows[0].Type)
}
