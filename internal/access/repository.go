package access

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/db"
)

type repository struct {
	store *db.Store
}

func NewRepository(store *db.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Create(ctx context.Context, e *Entry) error {
	return r.store.Use(func(conn *sqlx.DB) error {
		result, err := conn.ExecContext(ctx, `
			INSERT INTO accesses (client_identifier, movement_type, timestamp)
			VALUES (?, ?, ?)
		`, e.Cedula, string(e.Movement), e.Timestamp.Format(db.TimestampLayout))
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		e.ID = id
		return nil
	})
}

func (r *repository) Recent(ctx context.Context, limit int) ([]RecentEntry, error) {
	entries := []RecentEntry{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &entries, `
			SELECT a.id, a.client_identifier, a.movement_type, a.timestamp, c.name, c.surname
			FROM accesses a
			JOIN clients c ON c.identifier = a.client_identifier
			ORDER BY a.timestamp DESC, a.id DESC
			LIMIT ?
		`, limit)
	})
	return r.localize(entries), err
}

func (r *repository) ByDate(ctx context.Context, from, to time.Time) ([]RecentEntry, error) {
	entries := []RecentEntry{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &entries, `
			SELECT a.id, a.client_identifier, a.movement_type, a.timestamp, c.name, c.surname
			FROM accesses a
			JOIN clients c ON c.identifier = a.client_identifier
			WHERE date(a.timestamp) BETWEEN ? AND ?
			ORDER BY a.timestamp DESC, a.id DESC
		`, from.Format(db.DateLayout), to.Format(db.DateLayout))
	})
	return r.localize(entries), err
}

func (r *repository) localize(entries []RecentEntry) []RecentEntry {
	for i := range entries {
		entries[i].Timestamp = db.WallClock(entries[i].Timestamp, r.store.Location())
	}
	return entries
}

func (r *repository) LastFor(ctx context.Context, cedula string) (*Entry, error) {
	var e Entry
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &e, `
			SELECT id, client_identifier, movement_type, timestamp
			FROM accesses
			WHERE client_identifier = ?
			ORDER BY timestamp DESC, id DESC
			LIMIT 1
		`, cedula)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Timestamp = db.WallClock(e.Timestamp, r.store.Location())
	return &e, nil
}

func (r *repository) CountEntries(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &count, `
			SELECT COUNT(*)
			FROM accesses
			WHERE movement_type = 'Entrada'
			  AND timestamp >= ? AND timestamp < ?
		`, from.Format(db.TimestampLayout), to.Format(db.TimestampLayout))
	})
	return count, err
}

func (r *repository) PeakHour(ctx context.Context) (string, error) {
	var peak struct {
		Hour  string `db:"hour"`
		Total int    `db:"total"`
	}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &peak, `
			SELECT strftime('%H', timestamp) AS hour, COUNT(*) AS total
			FROM accesses
			WHERE movement_type = 'Entrada'
			GROUP BY hour
			ORDER BY total DESC, hour ASC
			LIMIT 1
		`)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return peak.Hour, err
}
