package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&User{}, &Task{}, &TaskAssignment{})
	require.NoError(t, err)

	return db
}

func requireInvariant(t *testing.T, task *Task) {
	t.Helper()
	require.Equal(t, task.Status == TaskStatusCompleted, task.CompletedAt != nil,
		"completed_at must be set exactly when status is COMPLETED")
}

func TestTaskCompletedAtDerivedOnCreate(t *testing.T) {
	db := setupModelDB(t)

	pending := &Task{Name: "Pending task", Status: TaskStatusPending, TaskType: TaskTypeOther}
	require.NoError(t, db.Create(pending).Error)
	require.Nil(t, pending.CompletedAt)
	requireInvariant(t, pending)

	completed := &Task{Name: "Done task", Status: TaskStatusCompleted, TaskType: TaskTypeBug}
	require.NoError(t, db.Create(completed).Error)
	require.NotNil(t, completed.CompletedAt)
	requireInvariant(t, completed)
}

func TestTaskCompletedAtStampIsIdempotent(t *testing.T) {
	db := setupModelDB(t)

	task := &Task{Name: "Done task", Status: TaskStatusCompleted, TaskType: TaskTypeOther}
	require.NoError(t, db.Create(task).Error)
	require.NotNil(t, task.CompletedAt)
	first := *task.CompletedAt

	time.Sleep(20 * time.Millisecond)

	// Re-saving while already COMPLETED must not re-stamp
	require.NoError(t, db.Save(task).Error)
	require.NotNil(t, task.CompletedAt)
	require.True(t, task.CompletedAt.Equal(first), "expected original stamp to be preserved")
	requireInvariant(t, task)
}

func TestTaskCompletedAtClearedAndRestamped(t *testing.T) {
	db := setupModelDB(t)

	task := &Task{Name: "Flip-flop task", Status: TaskStatusCompleted, TaskType: TaskTypeFeature}
	require.NoError(t, db.Create(task).Error)
	require.NotNil(t, task.CompletedAt)
	first := *task.CompletedAt

	task.Status = TaskStatusPending
	require.NoError(t, db.Save(task).Error)
	require.Nil(t, task.CompletedAt)
	requireInvariant(t, task)

	time.Sleep(20 * time.Millisecond)

	task.Status = TaskStatusCompleted
	require.NoError(t, db.Save(task).Error)
	require.NotNil(t, task.CompletedAt)
	require.True(t, task.CompletedAt.After(first), "expected a fresh stamp after re-completion")
	requireInvariant(t, task)
}

func TestTaskStatusIsValid(t *testing.T) {
	require.True(t, TaskStatusPending.IsValid())
	require.True(t, TaskStatusCompleted.IsValid())
	require.False(t, TaskStatus("DONE").IsValid())
}

func TestTaskTypeIsValid(t *testing.T) {
	for _, taskType := range []TaskType{TaskTypeBug, TaskTypeFeature, TaskTypeImprovement, TaskTypeOther} {
		require.True(t, taskType.IsValid())
	}
	require.False(t, TaskType("CHORE").IsValid())
}
