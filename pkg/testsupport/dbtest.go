package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a shared in-memory SQLite handle for corpus index
// tests. The shared cache keeps every pooled connection on the same database,
// so tests that write and read through bun should still cap the pool at one
// connection.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}
