package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// IsValid reports whether s is a known status value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskType string

const (
	TaskTypeBug         TaskType = "BUG"
	TaskTypeFeature     TaskType = "FEATURE"
	TaskTypeImprovement TaskType = "IMPROVEMENT"
	TaskTypeOther       TaskType = "OTHER"
)

// IsValid reports whether t is a known task type value
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeBug, TaskTypeFeature, TaskTypeImprovement, TaskTypeOther:
		return true
	}
	return false
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	TaskType    TaskType   `gorm:"type:varchar(20);not null;default:'OTHER'" json:"task_type"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// BeforeSave derives completed_at from status on every write path.
// Entering COMPLETED stamps the current time once; leaving COMPLETED clears
// it; re-saving while COMPLETED keeps the original stamp.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	switch {
	case t.Status == TaskStatusCompleted && t.CompletedAt == nil:
		now := time.Now()
		t.CompletedAt = &now
	case t.Status != TaskStatusCompleted:
		t.CompletedAt = nil
	}
	return nil
}
