package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/logger"
)

var ErrStoreClosed = errors.New("store is closed")

// Store owns the single connection to the database file. Repositories reach
// the connection only through Use, so Restart can swap the file underneath
// without any caller holding a stale handle.
type Store struct {
	mu   sync.RWMutex
	path string
	loc  *time.Location
	conn *sqlx.DB
}

func Open(path string, loc *time.Location) (*Store, error) {
	conn, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &Store{path: path, loc: loc, conn: conn}, nil
}

// NewStore wraps an existing connection; timestamps are read in UTC.
func NewStore(conn *sqlx.DB, path string) *Store {
	return &Store{path: path, loc: time.UTC, conn: conn}
}

func (s *Store) Path() string {
	return s.path
}

// Location is the zone stored timestamps were written in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Use runs fn with the live connection under a shared lock.
func (s *Store) Use(fn func(conn *sqlx.DB) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.conn == nil {
		return ErrStoreClosed
	}
	return fn(s.conn)
}

// Restart closes the connection, lets replace rewrite the database file and
// opens a fresh connection. The file is reopened even when replace fails.
func (s *Store) Restart(replace func(path string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		s.conn = nil
	}

	replaceErr := replace(s.path)

	conn, err := OpenFile(s.path)
	if err != nil {
		return errors.Join(replaceErr, fmt.Errorf("failed to reopen database: %w", err))
	}
	s.conn = conn

	if replaceErr != nil {
		return replaceErr
	}
	logger.Info("Database restarted", "path", s.path)
	return nil
}

// Backup copies the database file to dest while no statement can run.
func (s *Store) Backup(dest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CopyFile(s.path, dest)
}

func (s *Store) Vacuum(ctx context.Context) error {
	return s.Use(func(conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, "VACUUM")
		return err
	})
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func CopyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
