// Package testutil provides shared test helpers for setting up graph stores and import directories.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/jera/internal/graph"
	"github.com/starford/jera/internal/legacy"
)

// TestStore creates a temporary SQLite graph store that is automatically cleaned up.
func TestStore(t *testing.T) *graph.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "jera-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := graph.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDropDir creates a temporary import drop directory with a legacy.Provider.
func TestDropDir(t *testing.T) (string, legacy.Provider) {
	t.Helper()
	dir := t.TempDir()
	provider, err := legacy.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, provider
}
