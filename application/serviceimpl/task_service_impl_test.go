package serviceimpl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/domain/dto"
	"taskboard/domain/models"
	"taskboard/domain/services"
	"taskboard/pkg/apperrors"
)

type taskFixture struct {
	svc      services.TaskService
	taskRepo *fakeTaskRepo
	projRepo *fakeProjectRepo
	notifs   *fakeNotificationRepo
	pub      *capturePublisher

	project  *models.Project
	admin    uuid.UUID
	manager  uuid.UUID
	member   uuid.UUID
	viewer   uuid.UUID
	outsider uuid.UUID
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	f := &taskFixture{
		taskRepo: newFakeTaskRepo(),
		projRepo: newFakeProjectRepo(),
		notifs:   newFakeNotificationRepo(),
		pub:      newCapturePublisher(),
		admin:    uuid.New(),
		manager:  uuid.New(),
		member:   uuid.New(),
		viewer:   uuid.New(),
		outsider: uuid.New(),
	}

	f.project = &models.Project{
		ID:       uuid.New(),
		Name:     "Launch",
		Slug:     "launch",
		OwnerID:  f.admin,
		Columns:  models.DefaultColumns(),
		Settings: models.DefaultProjectSettings(),
	}
	require.NoError(t, f.projRepo.Create(context.Background(), f.project))
	for userID, role := range map[uuid.UUID]models.MemberRole{
		f.admin:   models.RoleAdmin,
		f.manager: models.RoleProjectManager,
		f.member:  models.RoleMember,
		f.viewer:  models.RoleViewer,
	} {
		require.NoError(t, f.projRepo.AddMember(context.Background(), &models.ProjectMember{
			ProjectID: f.project.ID,
			UserID:    userID,
			Role:      role,
			JoinedAt:  time.Now(),
		}))
	}

	f.svc = NewTaskService(f.taskRepo, f.projRepo, f.notifs, nil, f.pub, 30)
	return f
}

func (f *taskFixture) createTask(t *testing.T, title, column string) *dto.TaskResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.admin, f.project.ID, &dto.CreateTaskRequest{
		Title:  title,
		Column: column,
	})
	require.NoError(t, err)
	return resp
}

// positions returns title -> position for one column.
func (f *taskFixture) positions(t *testing.T, column string) map[string]int {
	t.Helper()
	tasks, err := f.taskRepo.ListByProject(context.Background(), f.project.ID, column, nil)
	require.NoError(t, err)

	out := make(map[string]int, len(tasks))
	for _, task := range tasks {
		out[task.Title] = task.Position
	}
	return out
}

// requireDense asserts positions in a column are exactly 0..n-1.
func (f *taskFixture) requireDense(t *testing.T, column string) {
	t.Helper()
	tasks, err := f.taskRepo.ListByProject(context.Background(), f.project.ID, column, nil)
	require.NoError(t, err)
	for i, task := range tasks {
		require.Equal(t, i, task.Position, "column %s not dense at %q", column, task.Title)
	}
}

func TestTaskService_CreateAppendsAtTail(t *testing.T) {
	f := newTaskFixture(t)

	a := f.createTask(t, "a", "To Do")
	b := f.createTask(t, "b", "To Do")
	c := f.createTask(t, "c", "To Do")

	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, 2, c.Order)
	f.requireDense(t, "To Do")

	// Each column orders independently.
	d, err := f.svc.Create(context.Background(), f.admin, f.project.ID, &dto.CreateTaskRequest{Title: "d", Column: "In Progress"})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Order)
}

func TestTaskService_CreateValidation(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.admin, f.project.ID, &dto.CreateTaskRequest{Title: "x", Column: "Nope"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.svc.Create(ctx, f.admin, f.project.ID, &dto.CreateTaskRequest{
		Title: "x", Column: "To Do", Assignees: []uuid.UUID{f.outsider},
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "assignees must be members")
}

func TestTaskService_CreatePermissions(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	req := &dto.CreateTaskRequest{Title: "x", Column: "To Do"}

	_, err := f.svc.Create(ctx, f.viewer, f.project.ID, req)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	// Non-members see NotFound, not Forbidden.
	_, err = f.svc.Create(ctx, f.outsider, f.project.ID, req)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	// Member creation honours the project setting.
	_, err = f.svc.Create(ctx, f.member, f.project.ID, req)
	require.NoError(t, err)

	f.project.Settings.AllowMembersToCreateTasks = false
	require.NoError(t, f.projRepo.Update(ctx, f.project))

	_, err = f.svc.Create(ctx, f.member, f.project.ID, req)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	// Managers are unaffected by the member toggle.
	_, err = f.svc.Create(ctx, f.manager, f.project.ID, req)
	require.NoError(t, err)
}

func TestTaskService_MoveWithinColumn(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	a := f.createTask(t, "a", "To Do")
	f.createTask(t, "b", "To Do")
	f.createTask(t, "c", "To Do")
	d := f.createTask(t, "d", "To Do")

	// Move a (0) down to slot 2: b and c step up.
	resp, err := f.svc.Move(ctx, f.admin, a.ID, &dto.MoveTaskRequest{Column: "To Do", Order: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Order)
	assert.Equal(t, map[string]int{"b": 0, "c": 1, "a": 2, "d": 3}, f.positions(t, "To Do"))
	f.requireDense(t, "To Do")

	// Move d (3) up to slot 0: everyone else steps down.
	_, err = f.svc.Move(ctx, f.admin, d.ID, &dto.MoveTaskRequest{Column: "To Do", Order: 0})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"d": 0, "b": 1, "c": 2, "a": 3}, f.positions(t, "To Do"))
	f.requireDense(t, "To Do")
}

func TestTaskService_MoveToSameSlotIsNoop(t *testing.T) {
	f := newTaskFixture(t)

	f.createTask(t, "a", "To Do")
	b := f.createTask(t, "b", "To Do")
	f.createTask(t, "c", "To Do")

	before := f.positions(t, "To Do")
	_, err := f.svc.Move(context.Background(), f.admin, b.ID, &dto.MoveTaskRequest{Column: "To Do", Order: 1})
	require.NoError(t, err)
	assert.Equal(t, before, f.positions(t, "To Do"))
}

func TestTaskService_MoveClampsOutOfRangeSlot(t *testing.T) {
	f := newTaskFixture(t)

	a := f.createTask(t, "a", "To Do")
	f.createTask(t, "b", "To Do")

	resp, err := f.svc.Move(context.Background(), f.admin, a.ID, &dto.MoveTaskRequest{Column: "To Do", Order: 99})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Order, "slot clamps to the column tail")
	f.requireDense(t, "To Do")
}

func TestTaskService_MoveAcrossColumns(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.createTask(t, "a", "To Do")
	b := f.createTask(t, "b", "To Do")
	f.createTask(t, "c", "To Do")
	f.createTask(t, "x", "In Progress")
	f.createTask(t, "y", "In Progress")

	// b leaves To Do slot 1 and lands in In Progress slot 1.
	resp, err := f.svc.Move(ctx, f.admin, b.ID, &dto.MoveTaskRequest{Column: "In Progress", Order: 1})
	require.NoError(t, err)
	assert.Equal(t, "In Progress", resp.Column)
	assert.Equal(t, 1, resp.Order)

	assert.Equal(t, map[string]int{"a": 0, "c": 1}, f.positions(t, "To Do"))
	assert.Equal(t, map[string]int{"x": 0, "b": 1, "y": 2}, f.positions(t, "In Progress"))
	f.requireDense(t, "To Do")
	f.requireDense(t, "In Progress")
}

func TestTaskService_MoveToDoneCompletesTask(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.admin, f.project.ID, &dto.CreateTaskRequest{
		Title: "ship it", Column: "To Do", Assignees: []uuid.UUID{f.member},
	})
	require.NoError(t, err)
	assert.False(t, task.IsCompleted)

	resp, err := f.svc.Move(ctx, f.admin, task.ID, &dto.MoveTaskRequest{Column: "Done", Order: 0})
	require.NoError(t, err)
	assert.True(t, resp.IsCompleted)
	require.NotNil(t, resp.CompletedAt)

	// Moving back out of Done clears completion.
	resp, err = f.svc.Move(ctx, f.admin, task.ID, &dto.MoveTaskRequest{Column: "To Do", Order: 0})
	require.NoError(t, err)
	assert.False(t, resp.IsCompleted)
	assert.Nil(t, resp.CompletedAt)
}

func TestTaskService_MoveNotifiesAssigneesNotActor(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.admin, f.project.ID, &dto.CreateTaskRequest{
		Title: "review", Column: "To Do", Assignees: []uuid.UUID{f.admin, f.member},
	})
	require.NoError(t, err)

	_, err = f.svc.Move(ctx, f.admin, task.ID, &dto.MoveTaskRequest{Column: "In Progress", Order: 0})
	require.NoError(t, err)

	memberCount, err := f.notifs.CountUnread(ctx, f.member)
	require.NoError(t, err)
	assert.Equal(t, int64(1), memberCount)

	// The actor is not notified about their own move.
	adminCount, err := f.notifs.CountUnread(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), adminCount)

	assert.Contains(t, f.pub.projectEventTypes(f.project.ID), "taskMoved")
}

func TestTaskService_DeleteCompactsColumn(t *testing.T) {
	f := newTaskFixture(t)

	f.createTask(t, "a", "To Do")
	b := f.createTask(t, "b", "To Do")
	f.createTask(t, "c", "To Do")
	f.createTask(t, "d", "To Do")

	require.NoError(t, f.svc.Delete(context.Background(), f.admin, b.ID))

	assert.Equal(t, map[string]int{"a": 0, "c": 1, "d": 2}, f.positions(t, "To Do"))
	f.requireDense(t, "To Do")
}

func TestTaskService_UpdateColumnChangeLandsAtTail(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	a := f.createTask(t, "a", "To Do")
	f.createTask(t, "b", "To Do")
	f.createTask(t, "x", "In Progress")

	col := "In Progress"
	resp, err := f.svc.Update(ctx, f.admin, a.ID, &dto.UpdateTaskRequest{Column: &col})
	require.NoError(t, err)
	assert.Equal(t, "In Progress", resp.Column)
	assert.Equal(t, 1, resp.Order)

	assert.Equal(t, map[string]int{"b": 0}, f.positions(t, "To Do"))
	f.requireDense(t, "To Do")
	f.requireDense(t, "In Progress")
}

func TestTaskService_UpdateNotifiesNewAssigneesOnly(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.admin, f.project.ID, &dto.CreateTaskRequest{
		Title: "write docs", Column: "To Do", Assignees: []uuid.UUID{f.member},
	})
	require.NoError(t, err)

	baseline, err := f.notifs.CountUnread(ctx, f.member)
	require.NoError(t, err)

	assignees := []uuid.UUID{f.member, f.manager}
	_, err = f.svc.Update(ctx, f.admin, task.ID, &dto.UpdateTaskRequest{Assignees: &assignees})
	require.NoError(t, err)

	managerCount, err := f.notifs.CountUnread(ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, int64(1), managerCount)

	memberCount, err := f.notifs.CountUnread(ctx, f.member)
	require.NoError(t, err)
	assert.Equal(t, baseline, memberCount, "existing assignee is not re-notified")
}

func TestTaskService_ViewerCanReadButNotWrite(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := f.createTask(t, "a", "To Do")

	got, err := f.svc.Get(ctx, f.viewer, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)

	_, err = f.svc.Move(ctx, f.viewer, task.ID, &dto.MoveTaskRequest{Column: "Done", Order: 0})
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	err = f.svc.Delete(ctx, f.viewer, task.ID)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))
}

func TestTaskService_AttachmentAddRemove(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	storage := newFakeStorage()
	f.svc = NewTaskService(f.taskRepo, f.projRepo, f.notifs, storage, f.pub, 30)

	task := f.createTask(t, "a", "To Do")

	resp, err := f.svc.AddAttachment(ctx, f.admin, task.ID, "notes.txt", "text/plain", 5, strings.NewReader("notes"))
	require.NoError(t, err)
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, "notes.txt", resp.Attachments[0].FileName)
	assert.Equal(t, 1, storage.blobCount())

	resp, err = f.svc.RemoveAttachment(ctx, f.admin, task.ID, resp.Attachments[0].ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Attachments)
	assert.Equal(t, 0, storage.blobCount(), "blob is deleted with its reference")

	_, err = f.svc.RemoveAttachment(ctx, f.admin, task.ID, uuid.New())
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestTaskService_AttachmentSaveKeepsConcurrentMove(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	storage := newFakeStorage()
	f.svc = NewTaskService(f.taskRepo, f.projRepo, f.notifs, storage, f.pub, 30)

	task := f.createTask(t, "a", "To Do")
	f.createTask(t, "b", "In Progress")

	// A move commits between the upload and the attachment save.
	storage.onUpload = func() {
		_, err := f.svc.Move(ctx, f.admin, task.ID, &dto.MoveTaskRequest{Column: "In Progress", Order: 0})
		require.NoError(t, err)
	}

	resp, err := f.svc.AddAttachment(ctx, f.admin, task.ID, "notes.txt", "text/plain", 5, strings.NewReader("notes"))
	require.NoError(t, err)

	assert.Equal(t, "In Progress", resp.Column)
	assert.Equal(t, 0, resp.Order)
	require.Len(t, resp.Attachments, 1)

	f.requireDense(t, "To Do")
	f.requireDense(t, "In Progress")
}

func TestTaskService_ConcurrentMovesKeepColumnDense(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c", "d", "e", "f"} {
		ids = append(ids, f.createTask(t, title, "To Do").ID)
	}

	done := make(chan struct{})
	for i, id := range ids {
		go func(id uuid.UUID, slot int) {
			defer func() { done <- struct{}{} }()
			_, err := f.svc.Move(ctx, f.admin, id, &dto.MoveTaskRequest{Column: "To Do", Order: slot})
			assert.NoError(t, err)
		}(id, (i*3)%len(ids))
	}
	for range ids {
		<-done
	}

	f.requireDense(t, "To Do")
}
