package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"widgetry.dev/internal/app"
	"widgetry.dev/internal/appconf"
	"widgetry.dev/internal/config"
	"widgetry.dev/internal/logging"
	"widgetry.dev/internal/metrics"
	"widgetry.dev/internal/registry"
	"widgetry.dev/internal/restapi"
	"widgetry.dev/internal/tzconv"
	"widgetry.dev/internal/webui"
	"widgetry.dev/widgetdb"
)

// serveFlags maps command line flags onto config keys.
var serveFlags = map[string]string{
	"port":              "port",
	"env":               "env",
	"api-keys":          "apiKeys",
	"rate-limit":        "rateLimit",
	"db-path":           "dbPath",
	"log-level":         "logLevel",
	"default-time-zone": "defaultTimeZone",
}

func newServeCommand(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the widget HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configDir)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.Int("port", 4000, "API server port")
	flags.String("env", "development", "Environment (development|test|production)")
	flags.StringSlice("api-keys", []string{"test"}, "Comma separated API keys")
	flags.Int("rate-limit", 100, "Requests per second allowed for each API key, 0 disables limiting")
	flags.String("db-path", ":memory:", "SQLite database holding stored timelines")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")
	flags.String("default-time-zone", "UTC", "Time zone for widgets that name none")
	return cmd
}

// loadConfig reads defaults, the config file and the environment, then lays
// any flags given on the command line over them.
func loadConfig(cmd *cobra.Command, configDir string) (appconf.Config, error) {
	if err := config.Load(configDir); err != nil {
		return appconf.Config{}, err
	}
	for flag, key := range serveFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return appconf.Config{}, fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return config.App()
}

// buildApplication opens the store and wires the shared dependencies. The
// returned func releases them.
func buildApplication(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (*app.Application, func(), error) {
	zone, err := tzconv.ResolveZone(cfg.DefaultTimeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid default time zone: %w", err)
	}

	db, err := widgetdb.NewClient(widgetdb.NewConfig(cfg.DBPath, cfg.Env, cfg.Env == appconf.Development), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening widget database: %w", err)
	}
	manager, err := registry.NewManager(ctx, db, logger)
	if err != nil {
		logging.SafeCloseWithLogging(db, logger, "widget_database")
		return nil, nil, err
	}

	m := metrics.New()
	m.SetStoredTimelines(len(manager.IDs()))

	application := &app.Application{
		Config:      cfg,
		Logger:      logger,
		Registry:    manager,
		Metrics:     m,
		DefaultZone: zone,
	}
	return application, manager.Shutdown, nil
}

// newHandler mounts the API and the preview pages behind the middleware
// chain.
func newHandler(application *app.Application) (http.Handler, *restapi.RestAPI) {
	api := restapi.NewRestAPI(application)
	router := httprouter.New()
	api.SetRoutes(router)
	webui.SetWebUIRoutes(router, &webui.WebUI{Application: application})
	return api.Handler(router), api
}

func serve(ctx context.Context, cfg appconf.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)

	application, release, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logging.LogError(logger, "failed to initialize application", err)
		return err
	}
	defer release()

	handler, api := newHandler(application)
	defer api.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logging.LogOperation(logger, "server_starting",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.Env.String()))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.LogOperation(logger, "server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}
