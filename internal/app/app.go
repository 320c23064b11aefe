// Package app assembles the stores, services and handlers of the front desk.
package app

import (
	"context"
	"errors"

	"gymdesk/internal/access"
	"gymdesk/internal/client"
	"gymdesk/internal/clock"
	"gymdesk/internal/config"
	"gymdesk/internal/db"
	"gymdesk/internal/importer"
	"gymdesk/internal/payment"
	"gymdesk/internal/report"
	"gymdesk/internal/scheduler"
	"gymdesk/internal/server"
	"gymdesk/internal/settings"
)

// Services is the service layer a presentation caller talks to.
type Services struct {
	Clients  client.Service
	Payments payment.Service
	Accesses access.Service
	Reports  report.Service
	Settings settings.Service
	Importer *importer.Importer
}

type App struct {
	Store     *db.Store
	Services  Services
	Server    *server.Server
	Scheduler *scheduler.Scheduler
}

// New opens the database and wires every service with the given clock.
// The scheduler is nil when cfg.AutoBackupCheck is empty.
func New(cfg *config.Config, now clock.Clock) (*App, error) {
	store, err := db.Open(cfg.DBPath, cfg.Location)
	if err != nil {
		return nil, err
	}

	clientRepo := client.NewRepository(store)
	paymentRepo := payment.NewRepository(store)
	accessRepo := access.NewRepository(store)

	settingsService := settings.NewService(cfg.SettingsPath, cfg.BackupDir, store, now)
	paymentService := payment.NewService(paymentRepo, clientRepo, settingsService, now)
	clientService := client.NewService(clientRepo, paymentService, now)
	accessService := access.NewService(accessRepo, clientService, paymentService, now)
	reportService := report.NewService(clientService, paymentService, accessService)
	clientImporter := importer.New(clientService)

	a := &App{
		Store: store,
		Services: Services{
			Clients:  clientService,
			Payments: paymentService,
			Accesses: accessService,
			Reports:  reportService,
			Settings: settingsService,
			Importer: clientImporter,
		},
	}

	a.Server = server.New(cfg, server.Handlers{
		Clients:  client.NewHandler(clientService),
		Import:   importer.NewHandler(clientImporter),
		Payments: payment.NewHandler(paymentService),
		Accesses: access.NewHandler(accessService, cfg.Location),
		Reports:  report.NewHandler(reportService),
		Settings: settings.NewHandler(settingsService),
	})

	if cfg.AutoBackupCheck != "" {
		a.Scheduler, err = scheduler.New(cfg.AutoBackupCheck, cfg.Location, settingsService, now)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return a, nil
}

// Close stops the scheduler and closes the database.
func (a *App) Close(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop(ctx)
	}
	return errors.Join(a.Server.Shutdown(ctx), a.Store.Close())
}
