// Package ledger persists assembly run history to SQLite so past runs can
// be inspected and failed documents retried.
package ledger
