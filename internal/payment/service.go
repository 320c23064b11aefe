package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gymdesk/internal/clock"
	"gymdesk/internal/db"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
	"gymdesk/internal/validation"
)

var (
	ErrInvalidAmount   = validation.New("monto", "El monto debe ser mayor a 0")
	ErrInvalidDuration = validation.New("duracion_meses", "La duración debe ser al menos de 1 mes")
	ErrDurationTooLong = validation.New("duracion_meses", fmt.Sprintf("La duración no puede superar %d meses", MaxDurationMonths))
	ErrUnknownPlan     = validation.New("plan", "Plan desconocido")
	ErrNoPricing       = errors.New("pricing is not configured")
)

// ClientChecker reports whether a client exists.
type ClientChecker interface {
	Exists(ctx context.Context, cedula string) (bool, error)
}

// PriceSource returns the configured price of a pricing plan.
type PriceSource interface {
	PlanPrice(ctx context.Context, plan string) (float64, error)
}

type Service interface {
	Register(ctx context.Context, cedula string, amount float64, months int, method string) (*Payment, error)
	RegisterPlan(ctx context.Context, cedula, plan, method string) (*Payment, error)
	Active(ctx context.Context, cedula string) (*Payment, error)
	History(ctx context.Context, cedula string) ([]Payment, error)
	All(ctx context.Context) ([]Payment, error)
	Overdue(ctx context.Context) ([]OverdueClient, error)
	ExpiringWithin(ctx context.Context, days int) ([]ExpiringClient, error)
	IncomeByMonth(ctx context.Context, year int) ([]MonthlyIncome, error)
	IncomeCurrentMonth(ctx context.Context) (float64, error)
	IncomePreviousMonth(ctx context.Context) (float64, error)
}

type service struct {
	repo    Repository
	clients ClientChecker
	prices  PriceSource
	now     clock.Clock
}

func NewService(repo Repository, clients ClientChecker, prices PriceSource, now clock.Clock) Service {
	return &service{
		repo:    repo,
		clients: clients,
		prices:  prices,
		now:     now,
	}
}

func (s *service) Register(ctx context.Context, cedula string, amount float64, months int, method string) (*Payment, error) {
	exists, err := s.clients.Exists(ctx, cedula)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, validation.ErrClientNotFound
	}
	if !(amount > 0) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}
	if months < 1 {
		return nil, ErrInvalidDuration
	}
	if months > MaxDurationMonths {
		return nil, ErrDurationTooLong
	}
	if method == "" {
		method = MethodCash
	}

	today := clock.Day(s.now())
	p := &Payment{
		Cedula:         cedula,
		Amount:         amount,
		DurationMonths: months,
		PaidOn:         today,
		ExpiresOn:      ExpirationFor(today, months),
		Method:         method,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		logger.Error("Failed to save payment", "cedula", cedula, "error", err)
		return nil, err
	}

	metrics.RecordPayment(method, amount)
	logger.Info("Payment registered",
		"cedula", cedula,
		"amount", amount,
		"months", months,
		"expires", p.ExpiresOn.Format(db.DateLayout),
	)
	return p, nil
}

func (s *service) RegisterPlan(ctx context.Context, cedula, plan, method string) (*Payment, error) {
	months, ok := PlanMonths[plan]
	if !ok {
		return nil, ErrUnknownPlan
	}
	if s.prices == nil {
		return nil, ErrNoPricing
	}
	price, err := s.prices.PlanPrice(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.Register(ctx, cedula, price, months, method)
}

func (s *service) Active(ctx context.Context, cedula string) (*Payment, error) {
	return s.repo.ActiveForClient(ctx, cedula)
}

func (s *service) History(ctx context.Context, cedula string) ([]Payment, error) {
	return s.repo.ForClient(ctx, cedula)
}

func (s *service) All(ctx context.Context) ([]Payment, error) {
	return s.repo.All(ctx)
}

func (s *service) Overdue(ctx context.Context) ([]OverdueClient, error) {
	memberships, err := s.repo.ActiveMemberships(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	overdue := []OverdueClient{}
	for _, m := range memberships {
		if StatusOf(today, m.Payment()) != StatusOverdue {
			continue
		}
		overdue = append(overdue, OverdueClient{
			Membership:  m,
			DaysOverdue: clock.DaysBetween(m.ExpiresOn, today),
		})
	}
	return overdue, nil
}

// ExpiringWithin lists active memberships that end between today and
// today+days inclusive, soonest first.
func (s *service) ExpiringWithin(ctx context.Context, days int) ([]ExpiringClient, error) {
	memberships, err := s.repo.ActiveMemberships(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	expiring := []ExpiringClient{}
	for _, m := range memberships {
		if StatusOf(today, m.Payment()) != StatusActive {
			continue
		}
		left := m.Payment().DaysToExpiry(today)
		if left > days {
			continue
		}
		expiring = append(expiring, ExpiringClient{Membership: m, DaysLeft: left})
	}
	return expiring, nil
}

// IncomeByMonth defaults to the current year when year is zero.
func (s *service) IncomeByMonth(ctx context.Context, year int) ([]MonthlyIncome, error) {
	if year == 0 {
		year = s.now().Year()
	}
	return s.repo.IncomeByMonth(ctx, year)
}

func (s *service) IncomeCurrentMonth(ctx context.Context) (float64, error) {
	return s.repo.IncomeForMonth(ctx, monthStart(s.now(), 0))
}

func (s *service) IncomePreviousMonth(ctx context.Context) (float64, error) {
	return s.repo.IncomeForMonth(ctx, monthStart(s.now(), -1))
}

func monthStart(t time.Time, offset int) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
}
