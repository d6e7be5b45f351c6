// Package database opens the SQL database shared by the order store and the
// confirmation event log, and hides the few differences between SQLite and
// PostgreSQL the repositories care about.
//
// SQLite (pure-Go modernc driver, no CGO) is the default so the service runs
// from a single file. PostgreSQL goes through lib/pq.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects placeholder style and DDL.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	default:
		return "", fmt.Errorf("database: unsupported driver %q", driver)
	}
}

// DB couples a connection pool with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open opens the database. For SQLite, dsn is a file path; WAL mode, foreign
// keys and a busy timeout are enabled and the pool is limited to one
// connection so writes are serialized.
func Open(dialect Dialect, dsn string) (*DB, error) {
	switch dialect {
	case SQLite:
		full := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", dsn)
		db, err := sql.Open("sqlite", full)
		if err != nil {
			return nil, fmt.Errorf("database: open sqlite %q: %w", dsn, err)
		}
		db.SetMaxOpenConns(1)
		return &DB{DB: db, Dialect: SQLite}, nil
	case Postgres:
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("database: open postgres: %w", err)
		}
		return &DB{DB: db, Dialect: Postgres}, nil
	default:
		return nil, fmt.Errorf("database: unsupported dialect %q", dialect)
	}
}

// Wrap adopts an existing pool, e.g. a sqlmock connection in tests.
func Wrap(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// Rebind rewrites ? placeholders into $1, $2, ... for PostgreSQL.
func (d *DB) Rebind(query string) string {
	if d.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique constraint failure in
// either driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}
