// Package sqlite provides the SQLite-backed run journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The database lives next to the dumps it describes, at
// <dump dir>/.spotidump.db. It only holds operation names and unit keys
// such as "playlist:<id>"; no tokens or credentials are stored.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
