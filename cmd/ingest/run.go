package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var dateFrom, dateTo string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full ingestion pass for a season",
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
			defer func() { _ = d.shutdown(context.Background()) }()

			opts := pipelineOptions(flags)
			opts.DateFrom = dateFrom
			opts.DateTo = dateTo

			report, err := d.pipe.Run(ctx, opts)
			return finishRun(d.logger, report, err)
		},
	}
	cmd.Flags().StringVar(&dateFrom, "date-from", "", "inclusive lower bound on game dates (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "date-to", "", "inclusive upper bound on game dates (YYYY-MM-DD)")
	return cmd
}

func newIncrementalCmd(flags *rootFlags) *cobra.Command {
	var lookback int
	cmd := &cobra.Command{
		Use:   "incremental",
		Short: "Ingest the trailing lookback window, skipping facts already landed",
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
			defer func() { _ = d.shutdown(context.Background()) }()

			days := lookback
			if days <= 0 {
				days = d.cfg.Daemon.LookbackDays
			}

			report, err := d.pipe.RunIncremental(ctx, pipelineOptions(flags), days)
			return finishRun(d.logger, report, err)
		},
	}
	cmd.Flags().IntVar(&lookback, "lookback-days", 0, "days to look back (default from LOOKBACK_DAYS)")
	return cmd
}
