// Package testutil opens migrated throwaway SQLite databases for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite"
)

// OpenMigratedDB returns a database file under t.TempDir() with every migration applied.
func OpenMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "rsvp.db"))
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := sqlite.ApplyMigrations(db); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	return db
}
