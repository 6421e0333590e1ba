package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mtakagi/task-tracker-api/internal/dto"
	apierrors "github.com/mtakagi/task-tracker-api/internal/errors"
	"github.com/mtakagi/task-tracker-api/internal/middleware"
	"github.com/mtakagi/task-tracker-api/internal/services"
	"github.com/mtakagi/task-tracker-api/internal/validation"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns every task, newest-created-first. Any authenticated
// user may list all tasks; the list is not ownership-filtered.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task. Staff only, enforced by route policy.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Status      string  `json:"status"`
		TaskType    string  `json:"task_type"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		TaskType:    req.TaskType,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a single task with its assignees.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "task_id", "Invalid task ID")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task. Staff only. Status edits
// re-derive completed_at through the model save path.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "task_id", "Invalid task ID")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		TaskType    *string `json:"task_type"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		TaskType:    req.TaskType,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// AssignTask additively assigns users to a task. Staff only. An invalid id
// anywhere in the batch rejects the whole batch.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "task_id", "Invalid task ID")
	if !ok {
		return
	}

	type AssignTaskRequest struct {
		UserIDs []uint64 `json:"user_ids" binding:"required"`
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AssignUsers(taskID, req.UserIDs)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListUserTasks returns the tasks assigned to the target user. Requester
// must be staff or the target user.
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	targetUserID, ok := parseIDParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	requester, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListTasksForUser(&requester, targetUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPermissionDenied):
			apierrors.Forbidden(c, "You do not have permission to view these tasks.")
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		default:
			apierrors.InternalError(c, "Failed to fetch tasks")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

func parseIDParam(c *gin.Context, name, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	var fieldErrs validation.FieldErrors
	var unknownIDs *services.UnknownUserIDsError

	switch {
	case errors.As(err, &fieldErrs):
		apierrors.BadRequestWithDetails(c, "Validation failed", fieldErrs)
	case errors.As(err, &unknownIDs):
		apierrors.BadRequestWithDetails(c, "One or more user IDs do not exist", gin.H{
			"user_ids": unknownIDs.IDs,
		})
	case errors.Is(err, services.ErrNoUserIDsProvided):
		apierrors.BadRequest(c, "At least one user ID is required")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	default:
		apierrors.InternalError(c, "")
	}
}
