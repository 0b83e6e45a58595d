package database

import (
	"testing"
	"testing/fstest"
)

func TestPendingMigrations_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/010_later.sql":   {Data: []byte("SELECT 1")},
		"migrations/002_videos.sql":  {Data: []byte("SELECT 1")},
		"migrations/001_catalog.sql": {Data: []byte("SELECT 1")},
		"migrations/README.md":       {Data: []byte("notes")},
		"migrations/abc_bad.sql":     {Data: []byte("SELECT 1")},
	}

	got, err := pendingMigrations(fsys)
	if err != nil {
		t.Fatalf("pendingMigrations() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 migrations, got %d: %+v", len(got), got)
	}
	want := []int{1, 2, 10}
	for i, m := range got {
		if m.version != want[i] {
			t.Errorf("Expected version %d at %d, got %d", want[i], i, m.version)
		}
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := pendingMigrations(migrationFS)
	if err != nil {
		t.Fatalf("pendingMigrations() error: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Expected embedded migrations")
	}
	if got[0].version != 1 {
		t.Errorf("Expected first migration version 1, got %d", got[0].version)
	}
}
