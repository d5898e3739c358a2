package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/iho/payengine/internal/adapter/csvio"
	httpAdapter "github.com/iho/payengine/internal/adapter/http"
	"github.com/iho/payengine/internal/adapter/http/handler"
	"github.com/iho/payengine/internal/infrastructure/config"
	"github.com/iho/payengine/internal/infrastructure/eventpublisher"
	"github.com/iho/payengine/internal/infrastructure/logger"
	"github.com/iho/payengine/internal/infrastructure/metrics"
	"github.com/iho/payengine/internal/report"
	"github.com/iho/payengine/internal/usecase"
)

var showSummary bool

// Prometheus metrics live in the process wide default registry, so they
// are created at most once even when run is invoked repeatedly in tests.
var newMetrics = sync.OnceValue(metrics.New)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "payengine <transactions.csv>",
		Short: "Replay a transaction log into final account balances",
		Long: `payengine reads a CSV transaction log, replays every deposit,
withdrawal, dispute, resolve and chargeback in order, and writes the
final state of every client account to stdout as CSV.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "print a run summary to stderr after the snapshot")

	return rootCmd
}

func run(ctx context.Context, path string, out io.Writer) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Setup logger
	runID := ulid.Make().String()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().Str("run_id", runID).Logger()

	// Select the event publisher
	var publisher usecase.EventPublisher
	if len(cfg.EventBrokers) > 0 {
		kafkaPublisher := eventpublisher.NewKafkaPublisher(eventpublisher.Config{
			Brokers: cfg.EventBrokers,
			Topic:   cfg.EventTopic,
		})
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.EventBrokers).Str("topic", cfg.EventTopic).Msg("publishing events to kafka")
	} else {
		publisher = eventpublisher.NewLogPublisher(log)
	}

	uc := usecase.NewLedgerUseCase(log, eventpublisher.NewUUIDGenerator(), publisher, newMetrics())

	// Start the debug listener when configured
	if cfg.DebugAddr != "" {
		debugServer := &http.Server{
			Addr: cfg.DebugAddr,
			Handler: httpAdapter.NewRouter(httpAdapter.RouterConfig{
				Logger:        log,
				HealthHandler: handler.NewHealthHandler(runID),
			}),
		}

		go func() {
			log.Info().Str("addr", cfg.DebugAddr).Msg("starting debug server")
			if err := debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("debug server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DebugShutdownTimeout)
			defer cancel()
			if err := debugServer.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("debug server forced to shutdown")
			}
		}()
	}

	// Replay the transaction log
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening transaction log: %w", err)
	}
	defer file.Close()

	stats, err := uc.ProcessStream(ctx, csvio.NewReader(file))
	if err != nil {
		return fmt.Errorf("processing %s: %w", path, err)
	}

	// Write the final snapshot
	if err := uc.WriteSnapshots(csvio.NewWriter(out)); err != nil {
		return err
	}

	if showSummary {
		report.NewSummary(os.Stderr).Write(stats, uc.Snapshots())
	}

	return nil
}
