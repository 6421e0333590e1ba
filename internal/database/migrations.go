package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds query-path indexes beyond what AutoMigrate creates.
// Only used with the postgres driver; pg_indexes is queried to keep the
// operation idempotent across restarts.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Listing is always ordered newest-first
		{"tasks", "idx_tasks_created_at", "created_at"},
		{"tasks", "idx_tasks_status", "status"},

		// Per-user task queries join through task_assignments
		{"task_assignments", "idx_task_assignments_task_id", "task_id"},
		{"task_assignments", "idx_task_assignments_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
