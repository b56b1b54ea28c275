package repository

import (
	"database/sql"
	"regexp"
)

// Dialect adapts queries written with Postgres $N placeholders to the driver in use
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

var numberedPlaceholder = regexp.MustCompile(`\$(\d+)`)

// Rebind rewrites $N placeholders into ?N for SQLite
func (d Dialect) Rebind(query string) string {
	if d == SQLite {
		return numberedPlaceholder.ReplaceAllString(query, "?$1")
	}
	return query
}

// dbExecutor is the subset of *sql.DB the repositories query through
type dbExecutor interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// NewSQLRepositories creates repositories backed by a database/sql connection.
// Closing the returned Repositories closes db.
func NewSQLRepositories(db *sql.DB, dialect Dialect) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db, dialect),
		Documents: NewDocumentRepository(db, dialect),
		closer:    db,
	}
}
