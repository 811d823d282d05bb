package repository

import (
	"context"
	"time"
)

// Load outcome recorded in an Entry
const (
	StatusCreated = "created"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)

// Entry is one create attempt
type Entry struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Table     string    `json:"table"`
	SourceID  string    `json:"source_id"`
	SysID     string    `json:"sys_id,omitempty"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Ledger persists load outcomes
type Ledger interface {
	RecordLoad(ctx context.Context, entry Entry) error
	ListLoads(ctx context.Context, runID string) ([]Entry, error)
	// LookupSysID returns the sys_id from the latest successful load of a
	// source record, or "" when it was never created.
	LookupSysID(ctx context.Context, table, sourceID string) (string, error)
	Close() error
}
