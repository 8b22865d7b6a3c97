// Package testutil provides shared fixtures for docsift tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/docsift/internal/storage"
)

// SetupJournal creates a migrated in-memory journal closed at test cleanup.
func SetupJournal(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	journal, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test journal: %v", err)
	}
	t.Cleanup(func() {
		_ = journal.Close()
	})

	if err := journal.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return journal
}

// WriteFiles writes name→content pairs under dir, creating it as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}
