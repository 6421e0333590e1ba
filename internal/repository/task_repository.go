package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mtakagi/task-tracker-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves all tasks with assignees, ordered newest-created-first
func (r *GormTaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Assignments").
		Preload("Assignments.User").
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForUser retrieves tasks where the user is among the assignees
func (r *GormTaskRepository) ListForUser(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID).
		Preload("Assignments").
		Preload("Assignments.User").
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// AddAssignees unions users into the task's assignment set. Already-assigned
// users are no-ops via ON CONFLICT DO NOTHING; the task row itself is
// re-saved inside the same transaction so updated_at reflects the mutation
// and concurrent assigns to one task cannot lose writes.
func (r *GormTaskRepository) AddAssignees(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		assignments := make([]models.TaskAssignment, len(userIDs))
		for i, userID := range userIDs {
			assignments[i] = models.TaskAssignment{
				TaskID: taskID,
				UserID: userID,
			}
		}

		if err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&assignments).Error; err != nil {
			return err
		}

		return tx.Save(&task).Error
	})
}
