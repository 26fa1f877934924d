package sqlitemigrate

import (
	"database/sql"
	"testing"

	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0001_journal.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE journal_events(seq INTEGER PRIMARY KEY);\n-- +migrate Down\nDROP TABLE journal_events;"),
		},
	}

	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "journal_events") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0001_journal.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE journal_events(seq INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("re-apply migrations should be idempotent: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)

	bad := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT table broken(id INT);"),
		},
	}
	if err := ApplyMigrations(db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}

	good := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE fixed(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, good, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected fixed migration to be recorded, got %d rows", rows)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a(id INT);\n" {
		t.Fatalf("up section = %q", up)
	}
	if got := ExtractUpMigration("CREATE TABLE b(id INT);"); got != "CREATE TABLE b(id INT);" {
		t.Fatalf("unmarked content = %q", got)
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query int value: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName)
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return false
		}
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
