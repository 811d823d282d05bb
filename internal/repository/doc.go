// Package repository defines the load ledger used by snowloader.
//
// The ledger records every create attempt made against ServiceNow: which
// source record was sent to which table, the sys_id the instance assigned
// and whether the attempt failed. Entries from one invocation share a run
// ID. The implementation lives in the sqlite subpackage.
//
// The ledger is an audit trail only. It is never consulted to skip, retry
// or update records on later runs.
package repository
