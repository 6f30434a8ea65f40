package app

import (
	"log/slog"
	"time"

	"widgetry.dev/internal/appconf"
	"widgetry.dev/internal/metrics"
	"widgetry.dev/internal/registry"
)

// Application holds the dependencies for the HTTP handlers, helpers and
// middleware.
type Application struct {
	Config   appconf.Config
	Logger   *slog.Logger
	Registry *registry.Manager
	Metrics  *metrics.Metrics

	// DefaultZone applies to widgets that name no time zone of their own.
	DefaultZone *time.Location
	// Clock is used for renders that depend on the current time; nil means
	// time.Now.
	Clock func() time.Time
}

// Now returns the current time in UTC.
func (app *Application) Now() time.Time {
	if app.Clock == nil {
		return time.Now().UTC()
	}
	return app.Clock().UTC()
}
