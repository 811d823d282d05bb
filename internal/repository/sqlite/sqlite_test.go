package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"snowloader/internal/repository"
)

// newTestLedger creates an in-memory ledger for testing
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test ledger: %v", err)
	}
	t.Cleanup(func() {
		l.Close()
	})
	return l
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func TestRecordAndListLoads(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	at := time.Date(2024, 4, 17, 7, 20, 36, 0, time.UTC)

	assertNoError(t, l.RecordLoad(ctx, repository.Entry{
		RunID: "run-1", Table: "cmdb_ci_network_gateway", SourceID: "host-1",
		SysID: "abc", Status: repository.StatusCreated, CreatedAt: at,
	}))
	assertNoError(t, l.RecordLoad(ctx, repository.Entry{
		RunID: "run-1", Table: "cmdb_location", SourceID: "site-1",
		Status: repository.StatusFailed, Error: "status 403",
	}))
	assertNoError(t, l.RecordLoad(ctx, repository.Entry{
		RunID: "run-2", Table: "cmdb_location", SourceID: "site-1",
		SysID: "def", Status: repository.StatusCreated,
	}))

	entries, err := l.ListLoads(ctx, "run-1")
	assertNoError(t, err)
	assertEqual(t, 2, len(entries))

	first := entries[0]
	assertEqual(t, "host-1", first.SourceID)
	assertEqual(t, "abc", first.SysID)
	assertEqual(t, at, first.CreatedAt)
	if first.ID == 0 {
		t.Error("expected generated ID")
	}

	second := entries[1]
	assertEqual(t, "", second.SysID)
	assertEqual(t, "status 403", second.Error)
	assertEqual(t, repository.StatusFailed, second.Status)
	if second.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to default to now")
	}

	all, err := l.ListLoads(ctx, "")
	assertNoError(t, err)
	assertEqual(t, 3, len(all))
}

func TestListLoadsUnknownRun(t *testing.T) {
	l := newTestLedger(t)

	entries, err := l.ListLoads(context.Background(), "nope")
	assertNoError(t, err)
	assertEqual(t, 0, len(entries))
}

func TestRecordLoadRejectsIncompleteEntry(t *testing.T) {
	l := newTestLedger(t)

	err := l.RecordLoad(context.Background(), repository.Entry{Table: "cmdb_location", Status: repository.StatusCreated})
	if err == nil {
		t.Fatal("expected error for missing run_id")
	}
}

func TestLookupSysID(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	sysID, err := l.LookupSysID(ctx, "cmdb_ci_network_gateway", "host-1")
	assertNoError(t, err)
	assertEqual(t, "", sysID)

	assertNoError(t, l.RecordLoad(ctx, repository.Entry{
		RunID: "r1", Table: "cmdb_ci_network_gateway", SourceID: "host-1", SysID: "old", Status: repository.StatusCreated,
	}))
	assertNoError(t, l.RecordLoad(ctx, repository.Entry{
		RunID: "r2", Table: "cmdb_ci_network_gateway", SourceID: "host-1", SysID: "new", Status: repository.StatusCreated,
	}))
	assertNoError(t, l.RecordLoad(ctx, repository.Entry{
		RunID: "r3", Table: "cmdb_ci_network_gateway", SourceID: "host-1", Status: repository.StatusFailed, Error: "boom",
	}))

	sysID, err = l.LookupSysID(ctx, "cmdb_ci_network_gateway", "host-1")
	assertNoError(t, err)
	assertEqual(t, "new", sysID)

	sysID, err = l.LookupSysID(ctx, "cmdb_location", "host-1")
	assertNoError(t, err)
	assertEqual(t, "", sysID)
}

func TestLedgerPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	l, err := New(path)
	assertNoError(t, err)
	assertNoError(t, l.RecordLoad(ctx, repository.Entry{
		RunID: "r1", Table: "cmdb_endpoint", SourceID: "aa:bb", SysID: "x1", Status: repository.StatusCreated,
	}))
	assertNoError(t, l.Close())

	reopened, err := New(path)
	assertNoError(t, err)
	defer reopened.Close()

	entries, err := reopened.ListLoads(ctx, "r1")
	assertNoError(t, err)
	assertEqual(t, 1, len(entries))
	assertEqual(t, "x1", entries[0].SysID)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := parseTimestamp("2024-04-17 07:20:36")
	assertNoError(t, err)
	assertEqual(t, 2024, ts.Year())

	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Fatal("expected error for garbage timestamp")
	}
}
