// Package testutil provides test helpers for setting up throwaway databases,
// creating fixtures, and making assertions.
package testutil

import (
	"path/filepath"
	"testing"

	"fintrack/internal/database"
	"fintrack/internal/models"
)

// allModels is the list of all GORM models to auto-migrate in tests.
var allModels = []interface{}{
	&models.User{},
	&models.Category{},
	&models.Transaction{},
}

// SetupTestDB creates a store manager backed by a SQLite file in a temp
// directory, with all models migrated. A real file (rather than :memory:)
// keeps backup and restore testable with the same helper.
func SetupTestDB(t *testing.T) *database.Manager {
	t.Helper()

	mgr, err := database.NewManager(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := mgr.DB().AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return mgr
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, mgr *database.Manager) {
	t.Helper()

	if err := mgr.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
