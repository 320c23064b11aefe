package payment

import (
	"context"
	"time"
)

type Repository interface {
	// Save deactivates the client's previous payments and inserts p as the
	// only active one. p.ID is set on success.
	Save(ctx context.Context, p *Payment) error
	ActiveForClient(ctx context.Context, cedula string) (*Payment, error)
	ForClient(ctx context.Context, cedula string) ([]Payment, error)
	All(ctx context.Context) ([]Payment, error)
	ActiveMemberships(ctx context.Context) ([]Membership, error)
	IncomeByMonth(ctx context.Context, year int) ([]MonthlyIncome, error)
	IncomeForMonth(ctx context.Context, month time.Time) (float64, error)
}
