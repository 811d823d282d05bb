package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"snowloader/internal/repository"

	_ "modernc.org/sqlite"
)

// Ledger implements repository.Ledger using SQLite
type Ledger struct {
	db *sql.DB
}

var _ repository.Ledger = (*Ledger)(nil)

// New opens (creating if needed) the ledger database at dbPath
func New(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return l, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if path == ":memory:" {
		return path + sep + "_pragma=busy_timeout(5000)"
	}
	return path + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS loads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		table_name TEXT NOT NULL,
		source_id TEXT NOT NULL DEFAULT '',
		sys_id TEXT,
		status TEXT NOT NULL,
		error TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_loads_run ON loads(run_id);
	CREATE INDEX IF NOT EXISTS idx_loads_source ON loads(table_name, source_id);
	`

	_, err := l.db.Exec(schema)
	return err
}

// RecordLoad appends an entry. A zero CreatedAt is set to now.
func (l *Ledger) RecordLoad(ctx context.Context, entry repository.Entry) error {
	if entry.RunID == "" || entry.Table == "" || entry.Status == "" {
		return errors.New("ledger entry requires run_id, table and status")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO loads (run_id, table_name, source_id, sys_id, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.RunID, entry.Table, entry.SourceID, stringToNull(entry.SysID), entry.Status,
		stringToNull(entry.Error), entry.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record load: %w", err)
	}
	return nil
}

// ListLoads returns a run's entries in insertion order. An empty runID lists
// every entry.
func (l *Ledger) ListLoads(ctx context.Context, runID string) ([]repository.Entry, error) {
	query := `
		SELECT id, run_id, table_name, source_id, sys_id, status, error, created_at
		FROM loads`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loads: %w", err)
	}
	defer rows.Close()

	var entries []repository.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// LookupSysID returns the sys_id of the latest successful load
func (l *Ledger) LookupSysID(ctx context.Context, table, sourceID string) (string, error) {
	var sysID sql.NullString
	err := l.db.QueryRowContext(ctx, `
		SELECT sys_id FROM loads
		WHERE table_name = ? AND source_id = ? AND status = ? AND sys_id IS NOT NULL
		ORDER BY id DESC LIMIT 1
	`, table, sourceID, repository.StatusCreated).Scan(&sysID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to lookup sys_id: %w", err)
	}
	return nullToString(sysID), nil
}

// Close closes the database connection
func (l *Ledger) Close() error {
	return l.db.Close()
}
