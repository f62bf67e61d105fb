// Package sqlstore implements the read-only insights store over a relational
// database. SQLite (modernc, pure Go) is the default; MySQL/MariaDB and
// PostgreSQL are selected by driver name.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// Options configures the connection pool.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// DB wraps a sql.DB together with the placeholder style of its driver.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the configured database and verifies it answers.
// SQLite files are created if missing and get the schema bootstrapped;
// MySQL and PostgreSQL databases are expected to be provisioned already.
func Open(ctx context.Context, opts Options) (*DB, error) {
	var (
		dsn = opts.DSN
		err error
	)
	switch opts.Driver {
	case DriverSQLite, "":
		opts.Driver = DriverSQLite
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, ":memory:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	case DriverMySQL:
		if dsn, err = MySQLDSN(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", opts.Driver)
	}

	conn, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
		conn.SetMaxIdleConns(opts.MaxOpenConns)
	}
	conn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	db := &DB{conn: conn, driver: opts.Driver}
	if db.driver == DriverSQLite {
		if err := db.Migrate(ctx); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return db, nil
}

// OpenInMemory opens a migrated in-memory SQLite database, useful for testing.
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open(DriverSQLite, ":memory:")
	if err != nil {
		return nil, err
	}
	// every pooled connection would otherwise see its own empty database
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, driver: DriverSQLite}
	if err := db.Migrate(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB for advanced queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the driver name the database was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// rebind rewrites '?' placeholders to the driver's native style.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
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
