package access

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]RecentEntry, error)
	ByDate(ctx context.Context, from, to time.Time) ([]RecentEntry, error)
	LastFor(ctx context.Context, cedula string) (*Entry, error)
	// CountEntries counts Entrada movements with from <= timestamp < to.
	CountEntries(ctx context.Context, from, to time.Time) (int, error)
	// PeakHour returns the "HH" with the most entries, or "" when there are none.
	PeakHour(ctx context.Context) (string, error)
}
