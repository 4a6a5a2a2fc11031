package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_SyncCompletion(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("entering done column marks completed", func(t *testing.T) {
		task := &Task{Column: DoneColumn}
		task.SyncCompletion(now)

		assert.True(t, task.IsCompleted)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, now, *task.CompletedAt)
	})

	t.Run("leaving done column clears completion", func(t *testing.T) {
		completedAt := now.Add(-time.Hour)
		task := &Task{
			Column:      "In Progress",
			IsCompleted: true,
			CompletedAt: &completedAt,
		}
		task.SyncCompletion(now)

		assert.False(t, task.IsCompleted)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("staying in done column keeps original timestamp", func(t *testing.T) {
		completedAt := now.Add(-time.Hour)
		task := &Task{
			Column:      DoneColumn,
			IsCompleted: true,
			CompletedAt: &completedAt,
		}
		task.SyncCompletion(now)

		assert.True(t, task.IsCompleted)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, completedAt, *task.CompletedAt)
	})

	t.Run("non-done column stays incomplete", func(t *testing.T) {
		task := &Task{Column: "To Do"}
		task.SyncCompletion(now)

		assert.False(t, task.IsCompleted)
		assert.Nil(t, task.CompletedAt)
	})
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&Task{}).IsOverdue(now), "no due date")
	assert.True(t, (&Task{DueDate: &past}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &future}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &past, IsCompleted: true}).IsOverdue(now), "completed tasks are never overdue")
}

func TestProject_RoleHelpers(t *testing.T) {
	admin := uuid.New()
	viewer := uuid.New()
	outsider := uuid.New()

	project := &Project{
		Members: []ProjectMember{
			{UserID: admin, Role: RoleAdmin},
			{UserID: viewer, Role: RoleViewer},
		},
	}

	role, ok := project.RoleOf(admin)
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = project.RoleOf(outsider)
	assert.False(t, ok)

	assert.True(t, project.IsMember(viewer))
	assert.False(t, project.IsMember(outsider))
	assert.Equal(t, 1, project.AdminCount())
}

func TestColumnList(t *testing.T) {
	cols := DefaultColumns()

	assert.Equal(t, []string{"To Do", "In Progress", "Done"}, cols.Names())
	assert.True(t, cols.Contains(DoneColumn))
	assert.False(t, cols.Contains("Backlog"))
}

func TestMemberRole_Valid(t *testing.T) {
	for _, r := range []MemberRole{RoleAdmin, RoleProjectManager, RoleMember, RoleViewer} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, MemberRole("owner").Valid())
	assert.False(t, MemberRole("").Valid())
}

func TestUser_PasswordRoundTrip(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("s3cret-pass"))

	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
}
