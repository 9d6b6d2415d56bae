package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the hot-path indexes AutoMigrate does not cover.
// Postgres only: it consults pg_indexes to stay idempotent.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Public link resolution is the hottest lookup in the system.
		{"users", "idx_users_feedback_link_id", "feedback_link_id"},

		// Dashboard reads: all feedback for one recipient, newest first.
		{"feedback", "idx_feedback_user_created", "user_id, created_at"},

		// Template listings are always owner-scoped.
		{"templates", "idx_templates_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

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

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
