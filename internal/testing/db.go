// Package testing provides testing utilities and helpers for the coindash project.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/coindash/internal/database"
)

// NewTestDB creates a migrated key-value database in a per-test temporary
// directory. The database is closed automatically when the test ends.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
