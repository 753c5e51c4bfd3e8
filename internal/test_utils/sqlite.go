package test_utils

import (
	"path/filepath"
	"testing"

	"github.com/nivora/nivora/internal/database"
	"gorm.io/gorm"
)

// NewSQLiteDB opens an isolated SQLite file inside the test's temp dir.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "nivora-test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
