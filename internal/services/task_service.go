package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/mtakagi/task-tracker-api/internal/constants"
	"github.com/mtakagi/task-tracker-api/internal/models"
	"github.com/mtakagi/task-tracker-api/internal/repository"
	"github.com/mtakagi/task-tracker-api/internal/validation"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNoUserIDsProvided = errors.New("at least one user ID is required")
	ErrPermissionDenied  = errors.New("you do not have permission to view these tasks")
)

// UnknownUserIDsError reports the exact set of user ids that do not exist.
// The whole batch is rejected; no partial assignment happens.
type UnknownUserIDsError struct {
	IDs []uint64
}

func (e *UnknownUserIDsError) Error() string {
	return fmt.Sprintf("users with IDs %v do not exist", e.IDs)
}

// taskPreloads loads the assignment set with each assignee expanded
var taskPreloads = []string{"Assignments", "Assignments.User"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task. Status and TaskType
// arrive as raw strings so enum validation can report them as field errors.
type CreateTaskInput struct {
	Name        string
	Description *string
	Status      string
	TaskType    string
}

// UpdateTaskInput represents a partial update; nil fields are left untouched
type UpdateTaskInput struct {
	Name        *string
	Description *string
	Status      *string
	TaskType    *string
}

// ListTasks returns every task, newest-created-first, assignees expanded
func (s *TaskService) ListTasks() ([]models.Task, error) {
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its assignment set
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates the input, accumulating every field error, then
// persists a new task. completed_at derivation runs in the model save hook.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	fieldErrs := validation.FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrs.Add("name", "This field is required.")
	} else if len(name) > constants.MaxTaskNameLength {
		fieldErrs.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxTaskNameLength))
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
		if !status.IsValid() {
			fieldErrs.Add("status", fmt.Sprintf("%q is not a valid choice.", input.Status))
		}
	}

	taskType := models.TaskTypeOther
	if input.TaskType != "" {
		taskType = models.TaskType(input.TaskType)
		if !taskType.IsValid() {
			fieldErrs.Add("task_type", fmt.Sprintf("%q is not a valid choice.", input.TaskType))
		}
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	task := &models.Task{
		Name:        name,
		Description: input.Description,
		Status:      status,
		TaskType:    taskType,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// UpdateTask applies a partial update to an existing task. Status edits go
// through the same save path as every other write, so completed_at is
// re-derived.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	fieldErrs := validation.FieldErrors{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			fieldErrs.Add("name", "This field may not be blank.")
		} else if len(name) > constants.MaxTaskNameLength {
			fieldErrs.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxTaskNameLength))
		} else {
			task.Name = name
		}
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !status.IsValid() {
			fieldErrs.Add("status", fmt.Sprintf("%q is not a valid choice.", *input.Status))
		} else {
			task.Status = status
		}
	}
	if input.TaskType != nil {
		taskType := models.TaskType(*input.TaskType)
		if !taskType.IsValid() {
			fieldErrs.Add("task_type", fmt.Sprintf("%q is not a valid choice.", *input.TaskType))
		} else {
			task.TaskType = taskType
		}
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// AssignUsers additively assigns users to a task. Every supplied id must
// exist; otherwise the batch is rejected with the exact set of missing ids.
func (s *TaskService) AssignUsers(taskID uint64, userIDs []uint64) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	uniqueIDs := uniqueUint64(userIDs)

	existing, err := s.userRepo.FilterExistingIDs(uniqueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify users: %w", err)
	}
	if len(existing) != len(uniqueIDs) {
		existingSet := make(map[uint64]struct{}, len(existing))
		for _, id := range existing {
			existingSet[id] = struct{}{}
		}
		var missing []uint64
		for _, id := range uniqueIDs {
			if _, ok := existingSet[id]; !ok {
				missing = append(missing, id)
			}
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &UnknownUserIDsError{IDs: missing}
	}

	if err := s.taskRepo.AddAssignees(taskID, uniqueIDs); err != nil {
		return nil, fmt.Errorf("failed to assign users: %w", err)
	}

	return s.taskRepo.FindByID(taskID, taskPreloads...)
}

// ListTasksForUser returns the target user's assigned tasks. The requester
// must be staff or the target; that rule also guards staff-only information
// about whether the target exists.
func (s *TaskService) ListTasksForUser(requester *models.User, targetUserID uint64) ([]models.Task, error) {
	if !requester.IsStaff && requester.ID != targetUserID {
		return nil, ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	tasks, err := s.taskRepo.ListForUser(targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user: %w", err)
	}

	return tasks, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
