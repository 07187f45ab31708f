// Package database provides SQLite-based render history for reporttable.
//
// Every saved render keeps its source path, output format, table shape,
// build warnings, the rendered bytes and a SHA3-256 digest of them. The
// digest makes it cheap to tell whether a source renders differently than
// it did last time.
//
// The database is a single file opened through modernc.org/sqlite, which
// needs no CGO. WAL mode is enabled by default.
package database
