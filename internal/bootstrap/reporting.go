package bootstrap

import (
	"context"
	"errors"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/services"
	"github.com/jimmy-wims/course-log/internal/store"
)

// Reporting is the report service without the HTTP layer, used by the
// command line export.
type Reporting struct {
	app *Application
}

// OpenReporting runs the infrastructure and business phases of Run.
func OpenReporting(ctx context.Context, cfg *config.Config) (*Reporting, error) {
	if err := validateAllConfiguration(cfg); err != nil {
		return nil, err
	}

	app := &Application{Config: cfg}
	if err := app.initializeInfrastructure(ctx); err != nil {
		return nil, err
	}
	r := &Reporting{app: app}
	if err := app.initializeBusinessLayer(); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	return r, nil
}

func (r *Reporting) Reports() *services.ReportService { return r.app.ReportService }

func (r *Reporting) Store() *store.Store { return r.app.DB }

// Close flushes report events and releases caches and the database.
func (r *Reporting) Close(ctx context.Context) error {
	var errs []error
	if r.app.EventLogger != nil {
		errs = append(errs, r.app.EventLogger.Shutdown(ctx))
	}
	for _, c := range r.app.cacheClosers {
		errs = append(errs, c.close())
	}
	if r.app.DB != nil {
		errs = append(errs, r.app.DB.Close())
	}
	return errors.Join(errs...)
}
