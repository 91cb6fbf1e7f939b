package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(Memory)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertTrack(tx *sql.Tx, title string) error {
	_, err := tx.Exec(`
		INSERT INTO tracks (position, title, added_at, updated_at)
		VALUES (0, ?, 0, 0)
	`, title)
	return err
}

func countTracks(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return insertTrack(tx, "test")
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if count := countTracks(t, db); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	wantErr := errors.New("intentional error")

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if err := insertTrack(tx, "test"); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("WithTx error = %v, want %v", err, wantErr)
	}

	if count := countTracks(t, db); count != 0 {
		t.Errorf("count = %d, want 0 (rollback should have occurred)", count)
	}
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := initSchema(db); err != nil {
		t.Fatalf("second initSchema() error = %v", err)
	}

	var version int
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestNullString(t *testing.T) {
	if NullString("").Valid {
		t.Error("NullString(\"\").Valid = true, want false")
	}
	if got := NullStringValue(NullString("x")); got != "x" {
		t.Errorf("NullStringValue() = %q, want x", got)
	}
}
