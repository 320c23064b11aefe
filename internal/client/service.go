package client

import (
	"context"
	"strings"

	"gymdesk/internal/clock"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
	"gymdesk/internal/payment"
	"gymdesk/internal/validation"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Client, error)
	Update(ctx context.Context, c Client) (bool, error)
	Get(ctx context.Context, cedula string) (*Client, error)
	ListAll(ctx context.Context) ([]Client, error)
	Delete(ctx context.Context, cedula string) (bool, error)
	Search(ctx context.Context, criteria Criteria, filter StatusFilter) ([]SearchResult, error)
	StatusSummary(ctx context.Context) (*StatusSummary, error)
	ExpiringSoon(ctx context.Context, days int) ([]payment.ExpiringClient, error)
}

type service struct {
	repo     Repository
	payments payment.Service
	now      clock.Clock
}

func NewService(repo Repository, payments payment.Service, now clock.Clock) Service {
	return &service{
		repo:     repo,
		payments: payments,
		now:      now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Client, error) {
	if err := validation.RequireNumeric(req.Cedula, "Cédula"); err != nil {
		return nil, err
	}
	if err := validation.Require(req.Name, "Nombre"); err != nil {
		return nil, err
	}
	if err := validation.Require(req.Surname, "Apellido"); err != nil {
		return nil, err
	}

	c := &Client{
		Cedula:           strings.TrimSpace(req.Cedula),
		Name:             strings.TrimSpace(req.Name),
		Surname:          strings.TrimSpace(req.Surname),
		Phone:            strings.TrimSpace(req.Phone),
		EmergencyPhone:   strings.TrimSpace(req.EmergencyPhone),
		Address:          strings.TrimSpace(req.Address),
		Email:            strings.TrimSpace(req.Email),
		PhotoPath:        req.PhotoPath,
		RegistrationDate: clock.Day(s.now()),
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, validation.ErrDuplicateCedula
	}

	metrics.RecordClientRegistered()
	logger.Info("Client registered", "cedula", c.Cedula, "name", c.FullName())
	return c, nil
}

func (s *service) Update(ctx context.Context, c Client) (bool, error) {
	if err := validation.Require(c.Name, "Nombre"); err != nil {
		return false, err
	}
	if err := validation.Require(c.Surname, "Apellido"); err != nil {
		return false, err
	}
	return s.repo.Update(ctx, &c)
}

func (s *service) Get(ctx context.Context, cedula string) (*Client, error) {
	return s.repo.GetByCedula(ctx, cedula)
}

func (s *service) ListAll(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, cedula string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, cedula)
	if err != nil {
		return false, err
	}
	if deleted {
		logger.Info("Client deleted", "cedula", cedula)
	}
	return deleted, nil
}

func (s *service) Search(ctx context.Context, criteria Criteria, filter StatusFilter) ([]SearchResult, error) {
	rows, err := s.repo.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	today := s.now()
	results := []SearchResult{}
	for _, row := range rows {
		var active *payment.Payment
		if row.ExpiresOn != nil {
			active = &payment.Payment{Cedula: row.Cedula, ExpiresOn: *row.ExpiresOn, Active: true}
		}

		status := payment.StatusOf(today, active)
		if !filter.Matches(status) {
			continue
		}
		results = append(results, SearchResult{
			Client:    row.Client,
			ExpiresOn: row.ExpiresOn,
			Status:    status,
		})
	}
	return results, nil
}

// StatusSummary checks every client against its active payment.
func (s *service) StatusSummary(ctx context.Context) (*StatusSummary, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	summary := &StatusSummary{Total: len(clients)}
	for _, c := range clients {
		active, err := s.payments.Active(ctx, c.Cedula)
		if err != nil {
			return nil, err
		}
		if payment.StatusOf(today, active) == payment.StatusActive {
			summary.Active++
		} else {
			summary.Overdue++
		}
	}
	return summary, nil
}

func (s *service) ExpiringSoon(ctx context.Context, days int) ([]payment.ExpiringClient, error) {
	return s.payments.ExpiringWithin(ctx, days)
}
