package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evalboard/evalboard/internal/adapters/otel"
	"github.com/evalboard/evalboard/internal/adapters/turso"
	"github.com/evalboard/evalboard/internal/infrastructure/config"
	"github.com/evalboard/evalboard/internal/infrastructure/database"
	"github.com/evalboard/evalboard/internal/migrate"
	"github.com/evalboard/evalboard/internal/ports"
	"github.com/evalboard/evalboard/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison web server",
	Long: `Start the local comparison web server.

Examples:
  evalboard serve              # Start on the configured port (default 8080)
  evalboard serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides EVALBOARD_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := database.New(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer client.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	applied, err := migrate.Up(ctx, client.DB)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database ready", zap.Int("migrations_applied", applied))

	var metrics ports.MetricsExporter
	if cfg.OTEL.Enabled {
		exporter, err := otel.NewExporter(ctx, otel.Config{
			Endpoint: cfg.OTEL.Endpoint,
			Enabled:  cfg.OTEL.Enabled,
			Insecure: cfg.OTEL.Insecure,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics exporter: %w", err)
		}
		metrics = exporter
	} else {
		metrics = otel.NewNoOpExporter()
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := metrics.Close(closeCtx); err != nil {
			logger.Warn("failed to close metrics exporter", zap.Error(err))
		}
	}()

	comparisonRepo := turso.NewComparisonRepository(client.DB)
	server := web.NewServer(
		web.Config{
			Port:              cfg.Port,
			PageSize:          cfg.PageSize,
			ScrollThresholdPx: cfg.ScrollThresholdPx,
			FilterDebounce:    time.Duration(cfg.FilterDebounceMS) * time.Millisecond,
			TraceBaseURL:      cfg.TraceBaseURL,
		},
		logger,
		turso.NewDatasetRepository(client.DB),
		turso.NewExperimentRepository(client.DB),
		comparisonRepo,
		comparisonRepo,
		metrics,
	)
	return server.Start(ctx)
}
