// Package sqlite persists the engine's audit journal in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/netgovern/netgovern/internal/govern/event"
	"github.com/netgovern/netgovern/internal/govern/journal/sqlite/migrations"
	"github.com/netgovern/netgovern/internal/platform/storage/sqlitemigrate"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a SQLite-backed audit journal.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite journal at the provided path and applies embedded
// migrations before the store is handed to higher layers.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Append durably records the events in order, assigning journal sequence
// numbers. All rows of one call commit in a single transaction.
func (s *Store) Append(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal transaction: %w", err)
	}

	for _, evt := range events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO journal_events (ts, type, org_id, entity_kind, entity_id, status, actor)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			toMillis(evt.Timestamp),
			string(evt.Type),
			evt.OrgID,
			string(evt.EntityKind),
			evt.EntityID,
			evt.Status,
			evt.Actor,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append journal event %s: %w", evt.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal transaction: %w", err)
	}
	return nil
}

// List returns up to limit events with a sequence greater than afterSeq,
// in sequence order, so an external indexer can replay deterministically.
// A non-positive limit returns all matching events.
func (s *Store) List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	query := `SELECT seq, ts, type, org_id, entity_kind, entity_id, status, actor
		  FROM journal_events WHERE seq > ? ORDER BY seq`
	args := []any{int64(afterSeq)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			seq        int64
			ts         int64
			kind       string
			entityKind string
			evt        event.Event
		)
		if err := rows.Scan(&seq, &ts, &kind, &evt.OrgID, &entityKind, &evt.EntityID, &evt.Status, &evt.Actor); err != nil {
			return nil, fmt.Errorf("scan journal event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Timestamp = fromMillis(ts)
		evt.Type = event.Type(kind)
		evt.EntityKind = event.Kind(entityKind)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal events: %w", err)
	}
	return events, nil
}
