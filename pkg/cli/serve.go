package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/restaurant-service/pkg/api"
	"github.com/platinummonkey/restaurant-service/pkg/config"
	"github.com/platinummonkey/restaurant-service/pkg/observability"
	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
	"github.com/platinummonkey/restaurant-service/pkg/storage/postgres"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			return a.shutdown.Run(ctx)
		},
	}
}

// app is a fully wired service ready to Run
type app struct {
	api      http.Handler
	ops      http.Handler
	shutdown *observability.ShutdownManager
}

// newApp opens the store and telemetry and builds both HTTP servers.
// Resources acquired here are released by the shutdown manager.
func newApp(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*app, error) {
	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)
	health := observability.NewHealthChecker(Version)

	store, cm, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		_ = observability.ShutdownOTel(ctx, providers, logger)
		return nil, err
	}
	if cm != nil {
		health.AddCheck("postgres", cm.HealthCheck)
		if err := metrics.RegisterDBStats("primary", cm.Primary()); err != nil {
			logger.WithError(err).Warn("Failed to register database stats")
		}
	}

	opts := api.Options{Logger: logger}
	if cfg.Observability.MetricsEnabled {
		opts.Metrics = metrics
	}
	apiHandler := observability.TraceHandler(api.NewServer(store, opts), cfg.Observability.OTelServiceName)

	opsMux := http.NewServeMux()
	observability.RegisterHealthRoutes(opsMux, health)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(opsMux, registry)
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      apiHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	opsServer := &http.Server{
		Addr:        cfg.Server.HealthAddr(),
		Handler:     opsMux,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	sm := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, opsServer)
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})
	if cm != nil {
		sm.RegisterShutdownFunc(func(context.Context) error {
			return cm.Close()
		})
	}

	return &app{api: apiHandler, ops: opsMux, shutdown: sm}, nil
}

// openStore builds the configured store. The connection manager is nil for
// the in-memory backend.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *observability.Logger) (restaurants.Store, *postgres.ConnectionManager, error) {
	switch cfg.Type {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		return restaurants.NewMemoryStore(), nil, nil
	case config.StoragePostgres:
	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	cm, err := postgres.NewConnectionManager(cfg.ConnectionConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cm.Primary()); err != nil {
			_ = cm.Close()
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
	}

	if len(cm.AllReplicas()) > 0 && cfg.HealthCheckInterval > 0 {
		cm.StartHealthCheckRoutine(ctx, cfg.HealthCheckInterval)
	}
	return restaurants.NewPostgresStoreWithConns(cm), cm, nil
}
