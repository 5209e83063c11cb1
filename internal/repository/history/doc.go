// Package history keeps an append-only audit log of releases in SQLite.
//
// Every successful release appends one Entry; the `release history` command
// lists them newest first. The log is advisory: the version record JSON
// remains the source of truth, and a failed history write never fails a
// release.
package history
