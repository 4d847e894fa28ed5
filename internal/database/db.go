package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB represents the database connection
type DB struct {
	conn    *sql.DB
	driver  string
	builder sq.StatementBuilderType
}

// New opens a database connection.
// SQLite takes a file path, PostgreSQL a "host=... user=... dbname=..." string.
func New(driver, dsn string) (*DB, error) {
	var placeholders sq.PlaceholderFormat
	switch driver {
	case DriverSQLite:
		placeholders = sq.Question
	case DriverPostgres:
		placeholders = sq.Dollar
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		conn.SetMaxOpenConns(1)
	}

	return &DB{
		conn:    conn,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholders),
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the driver name the connection was opened with
func (db *DB) Driver() string {
	return db.driver
}
