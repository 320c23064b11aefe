package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/client"
	"gymdesk/internal/clock"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
	"gymdesk/internal/payment"
)

const noPeakHour = "N/A"

// ClientLookup finds a client by cedula, nil when unknown.
type ClientLookup interface {
	Get(ctx context.Context, cedula string) (*client.Client, error)
}

// ActivePayments returns a client's active payment, nil when none.
type ActivePayments interface {
	Active(ctx context.Context, cedula string) (*payment.Payment, error)
}

type Service interface {
	Register(ctx context.Context, cedula string, movement Movement) (*Decision, error)
	Recent(ctx context.Context, limit int) ([]RecentEntry, error)
	ByDate(ctx context.Context, from, to time.Time) ([]RecentEntry, error)
	LastFor(ctx context.Context, cedula string) (*Entry, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo     Repository
	clients  ClientLookup
	payments ActivePayments
	now      clock.Clock
}

func NewService(repo Repository, clients ClientLookup, payments ActivePayments, now clock.Clock) Service {
	return &service{
		repo:     repo,
		clients:  clients,
		payments: payments,
		now:      now,
	}
}

// Register checks the client's membership on every attempt and records the
// movement only when it is currently valid. Denials are not errors.
func (s *service) Register(ctx context.Context, cedula string, movement Movement) (*Decision, error) {
	if movement != MovementEntry && movement != MovementExit {
		return nil, ErrInvalidMovement
	}

	decision, err := s.decide(ctx, cedula)
	if err != nil {
		return nil, err
	}
	if decision.State != StateValid {
		metrics.RecordAccessAttempt(string(movement), "denied")
		logger.Info("Access denied", "cedula", cedula, "state", decision.State)
		return decision, nil
	}

	entry := &Entry{
		Cedula:    cedula,
		Movement:  movement,
		Timestamp: s.now().Truncate(time.Second),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	decision.Granted = true
	decision.Entry = entry
	decision.Message = fmt.Sprintf("Acceso %s registrado correctamente", strings.ToLower(string(movement)))

	metrics.RecordAccessAttempt(string(movement), "granted")
	logger.Info("Access registered", "cedula", cedula, "movement", movement)
	return decision, nil
}

func (s *service) decide(ctx context.Context, cedula string) (*Decision, error) {
	c, err := s.clients.Get(ctx, cedula)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &Decision{State: StateNoClient, Message: MessageNoClient}, nil
	}

	active, err := s.payments.Active(ctx, cedula)
	if err != nil {
		return nil, err
	}

	switch payment.StatusOf(s.now(), active) {
	case payment.StatusNoPayment:
		return &Decision{State: StateNoActivePayment, Message: MessageDenied, Client: c}, nil
	case payment.StatusOverdue:
		return &Decision{State: StateExpiredPayment, Message: MessageDenied, Client: c}, nil
	}
	return &Decision{State: StateValid, Client: c}, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]RecentEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}

// ByDate lists entries between two calendar days inclusive.
func (s *service) ByDate(ctx context.Context, from, to time.Time) ([]RecentEntry, error) {
	if to.IsZero() {
		to = from
	}
	return s.repo.ByDate(ctx, from, to)
}

func (s *service) LastFor(ctx context.Context, cedula string) (*Entry, error) {
	return s.repo.LastFor(ctx, cedula)
}

// Stats counts entries today and since the previous Sunday, and finds the
// busiest hour over all entries. Ties go to the earliest hour.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	today := clock.Day(now)
	tomorrow := today.AddDate(0, 0, 1)

	todayCount, err := s.repo.CountEntries(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}

	weekCount, err := s.repo.CountEntries(ctx, clock.WeekStart(now), tomorrow)
	if err != nil {
		return nil, err
	}

	peak, err := s.repo.PeakHour(ctx)
	if err != nil {
		return nil, err
	}
	if peak == "" {
		peak = noPeakHour
	}

	return &Stats{Today: todayCount, Week: weekCount, PeakHour: peak}, nil
}
