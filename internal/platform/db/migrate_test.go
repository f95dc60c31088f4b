package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadMigrationsSortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0002_batches.sql", "CREATE TABLE batches ();")
	writeFile(t, dir, "0001_init.sql", "CREATE TABLE donors ();")
	writeFile(t, dir, "0010_organs.sql", "CREATE TABLE organs ();")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("got %d migrations, want 3", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	for i, mig := range migrations {
		if mig.Version != wantVersions[i] {
			t.Errorf("migration %d version = %d, want %d", i, mig.Version, wantVersions[i])
		}
	}
	if migrations[0].SQL != "CREATE TABLE donors ();" {
		t.Errorf("SQL content not loaded: %q", migrations[0].SQL)
	}
}

func TestLoadMigrationsSkipsNonNumeric(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001_init.sql", "CREATE TABLE donors ();")
	writeFile(t, dir, "notes.sql", "-- not a migration")
	writeFile(t, dir, "README.md", "docs")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 1 {
		t.Errorf("got %d migrations, want only the numbered .sql file", len(migrations))
	}
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}
