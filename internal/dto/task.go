package dto

import (
	"time"

	"github.com/mtakagi/task-tracker-api/internal/models"
)

// TaskDTO represents a task in API responses. AssignedTo is always present,
// possibly empty, with each assignee expanded to a summary identity record.
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status"`
	TaskType    models.TaskType   `json:"task_type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at"`
	AssignedTo  []UserDTO         `json:"assigned_to"`
}

// ToTaskDTO converts a Task model to TaskDTO. Assignments must be preloaded
// with their users for AssignedTo to be populated.
func ToTaskDTO(task models.Task) TaskDTO {
	assignedTo := make([]UserDTO, 0, len(task.Assignments))
	for _, assignment := range task.Assignments {
		assignedTo = append(assignedTo, ToUserDTO(assignment.User))
	}

	return TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      task.Status,
		TaskType:    task.TaskType,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
		AssignedTo:  assignedTo,
	}
}

// ToTaskDTOs converts a slice of tasks, preserving order
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
