package database

import (
	"path/filepath"
	"testing"
)

func TestNewDBAppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"recipes", "meal_plan_batches", "shopping_lists", "generation_metrics", "bot_sessions"} {
		var name string
		err := db.SQL.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist after migrations: %v", table, err)
		}
	}
}

func TestNewDBIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("First NewDB failed: %v", err)
	}
	db.Close()

	// Re-opening an already migrated database must not fail.
	db, err = NewDB(path)
	if err != nil {
		t.Fatalf("Second NewDB failed: %v", err)
	}
	db.Close()
}
