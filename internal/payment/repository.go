package payment

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/db"
)

const paymentColumns = `id, client_identifier, amount, duration_months, payment_date, expiration_date, method, active`

type repository struct {
	store *db.Store
}

func NewRepository(store *db.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Save(ctx context.Context, p *Payment) error {
	return r.store.Use(func(conn *sqlx.DB) error {
		tx, err := conn.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `
			UPDATE payments SET active = 0 WHERE client_identifier = ?
		`, p.Cedula); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO payments (client_identifier, amount, duration_months, payment_date, expiration_date, method, active)
			VALUES (?, ?, ?, ?, ?, ?, 1)
		`, p.Cedula, p.Amount, p.DurationMonths,
			p.PaidOn.Format(db.DateLayout), p.ExpiresOn.Format(db.DateLayout), p.Method)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}

		p.ID = id
		p.Active = true
		return nil
	})
}

func (r *repository) ActiveForClient(ctx context.Context, cedula string) (*Payment, error) {
	var p Payment
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &p, `
			SELECT `+paymentColumns+`
			FROM payments
			WHERE client_identifier = ? AND active = 1
			ORDER BY id DESC
			LIMIT 1
		`, cedula)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.localize(&p)
	return &p, nil
}

func (r *repository) localize(p *Payment) {
	p.PaidOn = db.WallClock(p.PaidOn, r.store.Location())
	p.ExpiresOn = db.WallClock(p.ExpiresOn, r.store.Location())
}

func (r *repository) localizeAll(payments []Payment) []Payment {
	for i := range payments {
		r.localize(&payments[i])
	}
	return payments
}

func (r *repository) ForClient(ctx context.Context, cedula string) ([]Payment, error) {
	payments := []Payment{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &payments, `
			SELECT `+paymentColumns+`
			FROM payments
			WHERE client_identifier = ?
			ORDER BY payment_date DESC, id DESC
		`, cedula)
	})
	return r.localizeAll(payments), err
}

func (r *repository) All(ctx context.Context) ([]Payment, error) {
	payments := []Payment{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &payments, `
			SELECT `+paymentColumns+`
			FROM payments
			ORDER BY payment_date DESC, id DESC
		`)
	})
	return r.localizeAll(payments), err
}

func (r *repository) ActiveMemberships(ctx context.Context) ([]Membership, error) {
	memberships := []Membership{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &memberships, `
			SELECT c.identifier, c.name, c.surname, c.phone, p.id AS payment_id, p.expiration_date
			FROM clients c
			JOIN payments p ON p.client_identifier = c.identifier AND p.active = 1
			ORDER BY p.expiration_date ASC, c.identifier ASC
		`)
	})
	for i := range memberships {
		memberships[i].ExpiresOn = db.WallClock(memberships[i].ExpiresOn, r.store.Location())
	}
	return memberships, err
}

func (r *repository) IncomeByMonth(ctx context.Context, year int) ([]MonthlyIncome, error) {
	income := []MonthlyIncome{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &income, `
			SELECT strftime('%m', payment_date) AS month, SUM(amount) AS total, COUNT(*) AS payments
			FROM payments
			WHERE strftime('%Y', payment_date) = ?
			GROUP BY month
			ORDER BY month
		`, strconv.Itoa(year))
	})
	return income, err
}

func (r *repository) IncomeForMonth(ctx context.Context, month time.Time) (float64, error) {
	var total float64
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &total, `
			SELECT COALESCE(SUM(amount), 0.0)
			FROM payments
			WHERE strftime('%Y-%m', payment_date) = ?
		`, month.Format("2006-01"))
	})
	return total, err
}
