package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gymdesk/internal/clock"
	"gymdesk/internal/db"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
	"gymdesk/internal/payment"
	"gymdesk/internal/validation"
)

const (
	backupPrefix     = "backup_gimnasio_"
	backupExt        = ".db"
	backupNameLayout = "2006-01-02_15-04-05"
)

var (
	ErrBackupNotFound  = validation.New("nombre", "El archivo de respaldo no existe")
	ErrRestoreFromLive = validation.New("nombre", "No se puede restaurar desde la base de datos en uso")
)

// Database is the part of the store that backup and maintenance need.
type Database interface {
	Path() string
	Backup(dest string) error
	Restart(replace func(path string) error) error
	Vacuum(ctx context.Context) error
}

type Service interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc Document) error
	PlanPrice(ctx context.Context, plan string) (float64, error)
	CreateBackup(ctx context.Context) (*File, error)
	RestoreBackup(ctx context.Context, path string) error
	ListBackups(ctx context.Context) ([]File, error)
	Optimize(ctx context.Context) error
	AutoBackupDue(ctx context.Context, now time.Time) (bool, error)
}

type service struct {
	path      string
	backupDir string
	store     Database
	now       clock.Clock

	mu  sync.Mutex
	doc *Document
}

func NewService(path, backupDir string, store Database, now clock.Clock) Service {
	return &service{
		path:      path,
		backupDir: backupDir,
		store:     store,
		now:       now,
	}
}

// Load returns the settings document, reading it from disk on first use.
// A missing file is replaced by the defaults, which are written back.
func (s *service) Load(ctx context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := doc.clone()
	return &out, nil
}

func (s *service) load() (*Document, error) {
	if s.doc != nil {
		return s.doc, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		defaults := Defaults()
		if err := s.write(defaults); err != nil {
			return nil, err
		}
		logger.Info("Settings file created with defaults", "path", s.path)
		s.doc = &defaults
		return s.doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	doc := Defaults()
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	s.doc = &doc
	return s.doc, nil
}

func (s *service) Save(ctx context.Context, doc Document) error {
	if err := validation.Struct(doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc = doc.clone()
	if err := s.write(doc); err != nil {
		return err
	}
	s.doc = &doc

	logger.Info("Settings saved", "path", s.path)
	return nil
}

func (s *service) write(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func (s *service) PlanPrice(ctx context.Context, plan string) (float64, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}

	switch plan {
	case payment.PlanMonthly:
		return doc.Pricing.Monthly, nil
	case payment.PlanQuarterly:
		return doc.Pricing.Quarterly, nil
	case payment.PlanSemiannual:
		return doc.Pricing.Semiannual, nil
	case payment.PlanAnnual:
		return doc.Pricing.Annual, nil
	default:
		return 0, payment.ErrUnknownPlan
	}
}

// CreateBackup copies the database into the backup directory and records
// the time in the settings document.
func (s *service) CreateBackup(ctx context.Context) (*File, error) {
	now := s.now()
	name := backupPrefix + now.Format(backupNameLayout) + backupExt
	dest := filepath.Join(s.backupDir, name)

	if err := s.store.Backup(dest); err != nil {
		metrics.RecordBackup("create", "error")
		return nil, fmt.Errorf("failed to create backup: %w", err)
	}

	s.mu.Lock()
	doc, err := s.load()
	if err == nil {
		updated := doc.clone()
		stamp := now.Format(LastBackupLayout)
		updated.Backup.LastBackup = &stamp
		if err = s.write(updated); err == nil {
			s.doc = &updated
		}
	}
	s.mu.Unlock()
	if err != nil {
		metrics.RecordBackup("create", "error")
		return nil, err
	}

	metrics.RecordBackup("create", "success")
	logger.Info("Backup created", "path", dest)

	info, err := os.Stat(dest)
	if err != nil {
		return &File{Name: name, Path: dest, CreatedAt: now}, nil
	}
	return &File{Name: name, Path: dest, Size: info.Size(), CreatedAt: now}, nil
}

// RestoreBackup replaces the live database with the file at path. The
// store is closed during the copy and reopened afterwards.
func (s *service) RestoreBackup(ctx context.Context, path string) error {
	src, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if s.isLiveDatabase(path, src) {
		return ErrRestoreFromLive
	}

	err = s.store.Restart(func(dest string) error {
		return db.CopyFile(path, dest)
	})
	if err != nil {
		metrics.RecordBackup("restore", "error")
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	metrics.RecordBackup("restore", "success")
	logger.Info("Backup restored", "path", path)
	return nil
}

// isLiveDatabase reports whether path names the open database file. Copying
// it onto itself would truncate it first.
func (s *service) isLiveDatabase(path string, src os.FileInfo) bool {
	if live, err := os.Stat(s.store.Path()); err == nil {
		return os.SameFile(src, live)
	}
	a, errA := filepath.Abs(path)
	b, errB := filepath.Abs(s.store.Path())
	return errA == nil && errB == nil && a == b
}

// ListBackups returns the backups in the backup directory, newest first.
func (s *service) ListBackups(ctx context.Context) ([]File, error) {
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		created := info.ModTime()
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupExt)
		if t, err := time.ParseInLocation(backupNameLayout, stamp, s.now().Location()); err == nil {
			created = t
		}

		files = append(files, File{
			Name:      name,
			Path:      filepath.Join(s.backupDir, name),
			Size:      info.Size(),
			CreatedAt: created,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

func (s *service) Optimize(ctx context.Context) error {
	if err := s.store.Vacuum(ctx); err != nil {
		metrics.RecordBackup("optimize", "error")
		return fmt.Errorf("failed to optimize database: %w", err)
	}
	metrics.RecordBackup("optimize", "success")
	logger.Info("Database optimized")
	return nil
}

// AutoBackupDue reports whether automatic backups are on and the last one
// is older than the configured frequency allows.
func (s *service) AutoBackupDue(ctx context.Context, now time.Time) (bool, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if !doc.Backup.AutoEnabled {
		return false, nil
	}
	if doc.Backup.LastBackup == nil {
		return true, nil
	}

	last, err := time.ParseInLocation(LastBackupLayout, *doc.Backup.LastBackup, now.Location())
	if err != nil {
		logger.Warn("Unreadable last backup timestamp", "value", *doc.Backup.LastBackup)
		return true, nil
	}
	return now.Sub(last) >= Window(doc.Backup.Frequency), nil
}
