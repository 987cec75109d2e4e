package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds composite indexes that AutoMigrate does not cover.
// The pg_indexes lookup limits this to postgres deployments.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task list and dashboard filters
		{"tasks", "idx_tasks_assignee_status", "assignee_id, status"},
		{"tasks", "idx_tasks_status_due_date", "status, due_date"},

		// Notification badge and listing
		{"notifications", "idx_notifications_user_read", "user_id, read"},

		// Calendar range scans
		{"events", "idx_events_date_category", "date, category"},
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
