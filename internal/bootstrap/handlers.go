package bootstrap

import (
	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/handlers"
	"github.com/jimmy-wims/course-log/internal/middleware"
	"github.com/jimmy-wims/course-log/internal/services"
)

// handlerSet holds all HTTP handlers and the auth settings they share
type handlerSet struct {
	report  *handlers.ReportHandler
	session *handlers.SessionHandler
	auth    middleware.AuthConfig
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(cfg *config.Config, reportService *services.ReportService) handlerSet {
	authCfg := middleware.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		LoginURL:  cfg.LoginURL,
		BaseURL:   cfg.BaseURL,
	}
	return handlerSet{
		report:  handlers.NewReportHandler(reportService, cfg.ExportGzip),
		session: handlers.NewSessionHandler(authCfg),
		auth:    authCfg,
	}
}
