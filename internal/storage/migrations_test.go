package storage

import (
	"context"
	"testing"
)

func TestMigrate_CreatesJournalTables(t *testing.T) {
	store := createTestStorage(t)

	for _, table := range []string{"classification_runs", "validation_runs"} {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='table' AND name=?
		`, table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s was not created", table)
		}
	}

	version, err := store.schemaVersion(context.Background())
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrate_NilContext(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // exercising nil context handling
	if err := store.Migrate(nil); err != ErrNilContext {
		t.Errorf("Migrate(nil) error = %v, want %v", err, ErrNilContext)
	}
}
