package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/schedule"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/server"
)

func newDaemonCmd(flags *rootFlags) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run incremental ingestion on an interval with an admin surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.season == "" {
				return errors.New("--season is required")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := buildDeps(ctx, flags)
			if err != nil {
				return err
			}
			defer d.cleanup()

			runInterval := interval
			if runInterval <= 0 {
				runInterval = d.cfg.Daemon.RunInterval
			}
			runner := schedule.New(d.pipe, pipelineOptions(flags),
				d.cfg.Daemon.LookbackDays, d.logger, runInterval)
			admin := server.New(d.cfg.Daemon.AdminPort, runner.Status, d.logger)
			metricsSrv := buildMetricsServer(d)

			runner.Start(ctx)
			admin.Start()
			if metricsSrv != nil {
				go func() {
					logging.Info(d.logger, "metrics server starting",
						slog.String("addr", metricsSrv.Addr))
					if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logging.Warn(d.logger, "metrics server failed", slog.Any("error", err))
					}
				}()
			}

			<-ctx.Done()
			logging.Info(d.logger, "shutdown signal received")

			runner.Stop()
			shutdownCtx := context.Background()
			if err := admin.Shutdown(shutdownCtx); err != nil {
				logging.Warn(d.logger, "admin shutdown failed", slog.Any("error", err))
			}
			if metricsSrv != nil {
				if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
					logging.Warn(d.logger, "metrics server shutdown failed", slog.Any("error", err))
				}
			}
			if err := d.shutdown(shutdownCtx); err != nil {
				logging.Warn(d.logger, "metrics shutdown failed", slog.Any("error", err))
			}
			logging.Info(d.logger, "shutdown complete")
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between runs (default from RUN_INTERVAL)")
	return cmd
}

func buildMetricsServer(d *deps) *http.Server {
	if d.handler == nil || !d.cfg.Metrics.Enabled {
		return nil
	}
	return &http.Server{
		Addr:    ":" + d.cfg.Metrics.Port,
		Handler: d.handler,
	}
}
