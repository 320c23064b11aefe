package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	gosqlite3 "github.com/mattn/go-sqlite3"
)

// Layouts used for every date and timestamp column.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DriverName is the sqlite3 driver with ulower registered on every
// connection. SQLite's own lower() and LIKE fold ASCII only.
const DriverName = "sqlite3_gymdesk"

func init() {
	sql.Register(DriverName, &gosqlite3.SQLiteDriver{
		ConnectHook: func(conn *gosqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

func Connect(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One logical connection: the foreign_keys pragma is per connection and
	// the application never runs statements in parallel.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Dates and timestamps are stored as local wall-clock text. Without _loc the
// driver hands them back as UTC values carrying the same digits; see WallClock.
func dsn(path string) string {
	return fmt.Sprintf("%s?_foreign_keys=on", path)
}

// WallClock moves the digits of a scanned timestamp into loc.
func WallClock(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func RunMigrations(db *sqlx.DB) error {
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite3 driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func Exists(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return exists, err
}

// OpenFile connects to the database file at path, creating the parent
// directory and applying migrations.
func OpenFile(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := Connect(path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
