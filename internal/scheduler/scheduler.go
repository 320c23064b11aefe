// Package scheduler runs the periodic automatic backup check.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"gymdesk/internal/clock"
	"gymdesk/internal/logger"
	"gymdesk/internal/settings"
)

// Backups is the settings behavior the scheduler drives.
type Backups interface {
	AutoBackupDue(ctx context.Context, now time.Time) (bool, error)
	CreateBackup(ctx context.Context) (*settings.File, error)
}

type Scheduler struct {
	cron    *cron.Cron
	backups Backups
	now     clock.Clock
}

// New registers the backup check on spec, a standard cron expression or a
// descriptor such as "@hourly".
func New(spec string, loc *time.Location, backups Backups, now clock.Clock) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		backups: backups,
		now:     now,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Auto-backup scheduler started")
}

// Stop prevents new runs and waits for a running check to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	logger.Info("Auto-backup scheduler stopped")
}

// RunOnce creates a backup if one is due and reports whether it did.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	due, err := s.backups.AutoBackupDue(ctx, s.now())
	if err != nil {
		logger.Error("Auto-backup check failed", "error", err)
		return false
	}
	if !due {
		logger.Debug("Auto-backup not due")
		return false
	}

	file, err := s.backups.CreateBackup(ctx)
	if err != nil {
		logger.Error("Auto-backup failed", "error", err)
		return false
	}
	logger.Info("Auto-backup created", "path", file.Path)
	return true
}
