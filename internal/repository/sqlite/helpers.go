package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"snowloader/internal/repository"
)

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// parseTimestamp reads timestamps written by RecordLoad, falling back to
// the SQLite CURRENT_TIMESTAMP layout
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (repository.Entry, error) {
	var (
		entry        repository.Entry
		sysID, errS  sql.NullString
		createdAtRaw string
	)
	if err := row.Scan(&entry.ID, &entry.RunID, &entry.Table, &entry.SourceID,
		&sysID, &entry.Status, &errS, &createdAtRaw); err != nil {
		return entry, fmt.Errorf("failed to scan load: %w", err)
	}

	createdAt, err := parseTimestamp(createdAtRaw)
	if err != nil {
		return entry, err
	}

	entry.SysID = nullToString(sysID)
	entry.Error = nullToString(errS)
	entry.CreatedAt = createdAt
	return entry, nil
}
