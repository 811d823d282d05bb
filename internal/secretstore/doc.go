// Package secretstore reads credential fields from the 1Password CLI.
//
// Lookups are gated: the op binary must be on PATH and the CLI session must
// be signed in before an item is read. Every problem along the way (missing
// binary, expired session, timeout, unknown item or field, empty output) is
// reported as absence, never as an error, so callers can treat the store as
// one optional origin among several.
package secretstore
