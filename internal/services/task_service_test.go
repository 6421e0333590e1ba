package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mtakagi/task-tracker-api/internal/models"
	"github.com/mtakagi/task-tracker-api/internal/repository"
	"github.com/mtakagi/task-tracker-api/internal/validation"
)

type taskTestEnv struct {
	db      *gorm.DB
	service *TaskService
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{}, &models.TaskAssignment{})
	require.NoError(t, err)

	service := NewTaskService(repository.NewTaskRepository(db), repository.NewUserRepository(db))

	return taskTestEnv{db: db, service: service}
}

func (env taskTestEnv) createUser(t *testing.T, username string, staff bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		IsStaff:      staff,
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{Name: "Fix bug"})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Equal(t, models.TaskTypeOther, task.TaskType)
	require.Nil(t, task.CompletedAt)
	require.Empty(t, task.Assignments)
}

func TestTaskService_CreateTask_InvalidEnums(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.service.CreateTask(CreateTaskInput{
		Name:     "Bad enums",
		Status:   "DONE",
		TaskType: "CHORE",
	})

	var fieldErrs validation.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Contains(t, fieldErrs, "status")
	require.Contains(t, fieldErrs, "task_type")

	var count int64
	env.db.Model(&models.Task{}).Count(&count)
	require.Zero(t, count)
}

func TestTaskService_CreateTask_MissingName(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.service.CreateTask(CreateTaskInput{})

	var fieldErrs validation.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Contains(t, fieldErrs, "name")
}

func TestTaskService_AssignUsers_RejectsUnknownIDs(t *testing.T) {
	env := setupTaskTestEnv(t)

	u1 := env.createUser(t, "user1", false)
	u2 := env.createUser(t, "user2", false)
	task, err := env.service.CreateTask(CreateTaskInput{Name: "Fix bug"})
	require.NoError(t, err)

	_, err = env.service.AssignUsers(task.ID, []uint64{u1.ID, u2.ID, 999})

	var unknown *UnknownUserIDsError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, []uint64{999}, unknown.IDs)

	// The whole batch is rejected; the valid ids were not attached either
	var count int64
	env.db.Model(&models.TaskAssignment{}).Count(&count)
	require.Zero(t, count)
}

func TestTaskService_AssignUsers_AdditiveAndIdempotent(t *testing.T) {
	env := setupTaskTestEnv(t)

	u1 := env.createUser(t, "user1", false)
	u2 := env.createUser(t, "user2", false)
	task, err := env.service.CreateTask(CreateTaskInput{Name: "Fix bug"})
	require.NoError(t, err)

	updated, err := env.service.AssignUsers(task.ID, []uint64{u1.ID})
	require.NoError(t, err)
	require.Len(t, updated.Assignments, 1)

	// Re-assigning an existing assignee alongside a new one unions the sets
	updated, err = env.service.AssignUsers(task.ID, []uint64{u1.ID, u2.ID, u2.ID})
	require.NoError(t, err)
	require.Len(t, updated.Assignments, 2)

	assignees := map[uint64]bool{}
	for _, assignment := range updated.Assignments {
		assignees[assignment.UserID] = true
	}
	require.True(t, assignees[u1.ID])
	require.True(t, assignees[u2.ID])
}

func TestTaskService_AssignUsers_TaskNotFound(t *testing.T) {
	env := setupTaskTestEnv(t)
	env.createUser(t, "user1", false)

	_, err := env.service.AssignUsers(12345, []uint64{1})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_AssignUsers_EmptyList(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.service.AssignUsers(1, nil)
	require.ErrorIs(t, err, ErrNoUserIDsProvided)
}

func TestTaskService_ListTasks_NewestFirst(t *testing.T) {
	env := setupTaskTestEnv(t)

	older, err := env.service.CreateTask(CreateTaskInput{Name: "Older"})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	newer, err := env.service.CreateTask(CreateTaskInput{Name: "Newer"})
	require.NoError(t, err)

	tasks, err := env.service.ListTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, newer.ID, tasks[0].ID)
	require.Equal(t, older.ID, tasks[1].ID)
}

func TestTaskService_ListTasksForUser_Authorization(t *testing.T) {
	env := setupTaskTestEnv(t)

	staff := env.createUser(t, "boss", true)
	owner := env.createUser(t, "owner", false)
	other := env.createUser(t, "other", false)

	task, err := env.service.CreateTask(CreateTaskInput{Name: "Fix bug"})
	require.NoError(t, err)
	_, err = env.service.AssignUsers(task.ID, []uint64{owner.ID})
	require.NoError(t, err)

	// Staff can view anyone's tasks
	tasks, err := env.service.ListTasksForUser(staff, owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// The target user can view their own
	tasks, err = env.service.ListTasksForUser(owner, owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Anyone else is denied
	_, err = env.service.ListTasksForUser(other, owner.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Unassigned users have an empty, not missing, task list
	tasks, err = env.service.ListTasksForUser(other, other.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestTaskService_ListTasksForUser_TargetNotFound(t *testing.T) {
	env := setupTaskTestEnv(t)

	staff := env.createUser(t, "boss", true)

	_, err := env.service.ListTasksForUser(staff, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestTaskService_UpdateTask_StatusDerivation(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{Name: "Fix bug"})
	require.NoError(t, err)
	require.Nil(t, task.CompletedAt)

	completed := string(models.TaskStatusCompleted)
	task, err = env.service.UpdateTask(task.ID, UpdateTaskInput{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)

	pending := string(models.TaskStatusPending)
	task, err = env.service.UpdateTask(task.ID, UpdateTaskInput{Status: &pending})
	require.NoError(t, err)
	require.Nil(t, task.CompletedAt)
}
