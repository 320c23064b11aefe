package report

import (
	"context"

	"gymdesk/internal/access"
	"gymdesk/internal/client"
	"gymdesk/internal/payment"
)

type General struct {
	TotalClients        int     `json:"total_clientes"`
	ActiveClients       int     `json:"clientes_activos"`
	OverdueClients      int     `json:"clientes_vencidos"`
	IncomeCurrentMonth  float64 `json:"ingresos_mes_actual"`
	IncomePreviousMonth float64 `json:"ingresos_mes_anterior"`
	RetentionRate       float64 `json:"tasa_retencion"`
}

// StatusCount is one slice of the active/overdue breakdown.
type StatusCount struct {
	Status string `json:"estado"`
	Count  int    `json:"cantidad"`
}

type Service interface {
	General(ctx context.Context) (*General, error)
	IncomeByMonth(ctx context.Context, year int) ([]payment.MonthlyIncome, error)
	AccessStats(ctx context.Context) (*access.Stats, error)
	OverdueClients(ctx context.Context) ([]payment.OverdueClient, error)
	ClientStatus(ctx context.Context) ([]StatusCount, error)
}

type service struct {
	clients  client.Service
	payments payment.Service
	accesses access.Service
}

// NewService composes the other services; it never touches a repository.
func NewService(clients client.Service, payments payment.Service, accesses access.Service) Service {
	return &service{
		clients:  clients,
		payments: payments,
		accesses: accesses,
	}
}

func (s *service) General(ctx context.Context) (*General, error) {
	summary, err := s.clients.StatusSummary(ctx)
	if err != nil {
		return nil, err
	}

	current, err := s.payments.IncomeCurrentMonth(ctx)
	if err != nil {
		return nil, err
	}

	previous, err := s.payments.IncomePreviousMonth(ctx)
	if err != nil {
		return nil, err
	}

	return &General{
		TotalClients:        summary.Total,
		ActiveClients:       summary.Active,
		OverdueClients:      summary.Overdue,
		IncomeCurrentMonth:  current,
		IncomePreviousMonth: previous,
		RetentionRate:       RetentionRate(summary.Active, summary.Total),
	}, nil
}

// RetentionRate is active/total as a percentage, 0 with no clients.
func RetentionRate(active, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(active) / float64(total) * 100
}

func (s *service) IncomeByMonth(ctx context.Context, year int) ([]payment.MonthlyIncome, error) {
	return s.payments.IncomeByMonth(ctx, year)
}

func (s *service) AccessStats(ctx context.Context) (*access.Stats, error) {
	return s.accesses.Stats(ctx)
}

func (s *service) OverdueClients(ctx context.Context) ([]payment.OverdueClient, error) {
	return s.payments.Overdue(ctx)
}

func (s *service) ClientStatus(ctx context.Context) ([]StatusCount, error) {
	summary, err := s.clients.StatusSummary(ctx)
	if err != nil {
		return nil, err
	}
	return []StatusCount{
		{Status: "Activos", Count: summary.Active},
		{Status: "Vencidos", Count: summary.Overdue},
	}, nil
}
