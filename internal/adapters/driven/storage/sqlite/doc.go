// Package sqlite provides a SQLite-based implementation of the manual storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements several port interfaces
// through a single database connection:
//
//   - ManualStore: Per-owner manual records, committed with their vectors in one transaction
//   - VectorStore: Per-owner vector documents with exact cosine top-K query
//   - ConversationRegistry: Projects and conversations used for owner resolution
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha/data/manuals.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
