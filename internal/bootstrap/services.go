package bootstrap

import (
	"fmt"
	"log"

	"github.com/jimmy-wims/course-log/internal/auth"
	"github.com/jimmy-wims/course-log/internal/client"
	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/services"
	"github.com/jimmy-wims/course-log/internal/store"
)

// initializeReportService creates the report service and its collaborators
func initializeReportService(
	cfg *config.Config,
	db *store.Store,
	nameCache core.Cache[string],
	componentCache core.Cache[[]string],
	bundle *lang.Bundle,
	events *services.EventLogger,
	prometheusMetrics core.Recorder,
) (*services.ReportService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	checker, err := initializePermissionChecker(cfg, db)
	if err != nil {
		return nil, err
	}
	log.Printf("Permission mode: %s", checker.Name())

	readers := initializeLogReaders(cfg, db)
	log.Printf("Log readers: %v (first is the default)", readers.Names())

	names := services.NewCachedNames(db, nameCache, cfg.CacheTTL, prometheusMetrics)

	return services.NewReportService(
		db,
		readers,
		checker,
		names,
		componentCache,
		bundle,
		events,
		prometheusMetrics,
		services.ReportOptions{
			Location:       loc,
			HostBaseURL:    cfg.HostBaseURL,
			PageSize:       cfg.ReportPageSize,
			ToursComponent: cfg.ToursComponent,
			CacheTTL:       cfg.CacheTTL,
		},
	), nil
}

// initializeLogReaders builds one reader per configured name, in order.
func initializeLogReaders(cfg *config.Config, db *store.Store) *services.LogManager {
	readers := make([]core.LogReader, 0, len(cfg.LogReaders))
	for _, name := range cfg.LogReaders {
		readers = append(readers, store.NewStandardLogReader(db, name))
	}
	return services.NewLogManager(readers...)
}

// initializePermissionChecker selects where the view capability is decided
func initializePermissionChecker(cfg *config.Config, db *store.Store) (core.PermissionChecker, error) {
	switch cfg.PermissionMode {
	case config.PermissionModeHTTPAPI:
		retryClient, err := client.CreateRetryClient(client.RetryOptions{
			AuthMode:           cfg.PermissionAPIAuthMode,
			AuthSecret:         cfg.PermissionAPIAuthSecret,
			AuthHeader:         cfg.PermissionAPIAuthHeader,
			Timeout:            cfg.PermissionAPITimeout,
			InsecureSkipVerify: cfg.PermissionAPIInsecure,
			MaxRetries:         cfg.PermissionAPIMaxRetries,
			RetryDelay:         cfg.PermissionAPIRetryDelay,
			MaxRetryDelay:      cfg.PermissionAPIMaxRetryDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create permission API client: %w", err)
		}
		log.Printf("Permission API: %s (auth: %s)", cfg.PermissionAPIURL, cfg.PermissionAPIAuthMode)
		return auth.NewHTTPAPIPermissionChecker(cfg.PermissionAPIURL, retryClient), nil
	default:
		return auth.NewLocalPermissionChecker(db), nil
	}
}
