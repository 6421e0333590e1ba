package repository

import "github.com/mtakagi/task-tracker-api/internal/models"

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves all tasks ordered newest-created-first
	List() ([]models.Task, error)

	// ListForUser retrieves tasks assigned to a user, newest-created-first
	ListForUser(userID uint64) ([]models.Task, error)

	// Update saves a task, re-running its derivation hooks
	Update(task *models.Task) error

	// AddAssignees additively unions users into a task's assignment set.
	// The read-union-save sequence runs in a single transaction.
	AddAssignees(taskID uint64, userIDs []uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// UsernameExists reports whether a user with the username exists
	UsernameExists(username string) (bool, error)

	// EmailExists reports whether a user with the email exists
	EmailExists(email string) (bool, error)

	// FilterExistingIDs returns the subset of ids that belong to real users
	FilterExistingIDs(ids []uint64) ([]uint64, error)
}
