package sql

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteORM opens (or creates) a file-backed sqlite database. This is
// the default storage engine; a single writer suits the one-message-at-a-time
// ingestion stream while readers proceed concurrently.
func NewSQLiteORM(path string) (*DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}

	return &DB{DB: gormDB, autoMigrationEnabled: true}, nil
}
