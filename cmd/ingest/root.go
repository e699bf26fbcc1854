package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/config"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/extract"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/lake"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/pipeline"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/retry"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/warehouse"
)

const appVersion = "dev"

const (
	sinkS3       = "s3"
	sinkPostgres = "postgres"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	season        string
	sink          string
	shotZones     bool
	playerDetails bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Incremental NBA stats ingestion into a parquet lake or Postgres",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&flags.season, "season", "", "season identifier, e.g. 2024-25")
	cmd.PersistentFlags().StringVar(&flags.sink, "sink", sinkS3, "where frames land: s3 or postgres")
	cmd.PersistentFlags().BoolVar(&flags.shotZones, "shot-zones", false, "also aggregate per-player shot charts")
	cmd.PersistentFlags().BoolVar(&flags.playerDetails, "player-details", false, "enrich the player dimension with per-player bio calls")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newIncrementalCmd(flags))
	cmd.AddCommand(newDaemonCmd(flags))
	return cmd
}

// deps is the wired object graph behind one command invocation.
type deps struct {
	cfg      config.Config
	logger   *slog.Logger
	metrics  *metrics.Recorder
	handler  http.Handler
	shutdown func(context.Context) error
	pipe     *pipeline.Pipeline
	cleanup  func()
}

func buildDeps(ctx context.Context, flags *rootFlags) (*deps, error) {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "nba-stats-pipeline",
		Version: appVersion,
	})

	recorder, handler, metricsShutdown, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logger.Warn("metrics setup failed, continuing without telemetry", "error", err)
		recorder = metrics.NewRecorder()
		metricsShutdown = func(context.Context) error { return nil }
	}

	sink, cleanup, err := buildSink(ctx, cfg, flags.sink, logger, recorder)
	if err != nil {
		return nil, err
	}

	client := nbastats.NewClient(nbastats.Config{
		BaseURL:     cfg.Stats.BaseURL,
		Timeout:     cfg.Stats.Timeout,
		MinInterval: cfg.Stats.MinInterval,
	})
	extractor := extract.New(client, logger, recorder, retry.Policy{
		MaxAttempts: cfg.Stats.RetryAttempts,
		BaseDelay:   cfg.Stats.RetryBase,
	})

	return &deps{
		cfg:      cfg,
		logger:   logger,
		metrics:  recorder,
		handler:  handler,
		shutdown: metricsShutdown,
		pipe:     pipeline.New(extractor, sink, logger, recorder),
		cleanup:  cleanup,
	}, nil
}

func buildSink(ctx context.Context, cfg config.Config, kind string, logger *slog.Logger, recorder *metrics.Recorder) (pipeline.Sink, func(), error) {
	switch kind {
	case sinkS3:
		if cfg.Lake.Bucket == "" {
			return nil, nil, errors.New("S3_BUCKET must be set for the s3 sink")
		}
		client, err := lake.NewS3Client(cfg.Lake.Region, cfg.Lake.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		store := lake.NewS3Store(client, cfg.Lake.Bucket)
		return lake.NewWriter(store, logger, recorder), func() {}, nil
	case sinkPostgres:
		if cfg.Warehouse.DSN == "" {
			return nil, nil, errors.New("WAREHOUSE_DSN must be set for the postgres sink")
		}
		pool, err := warehouse.Connect(ctx, cfg.Warehouse.DSN)
		if err != nil {
			return nil, nil, err
		}
		return warehouse.NewStore(pool, logger, recorder), pool.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown sink %q (want s3 or postgres)", kind)
	}
}

func pipelineOptions(flags *rootFlags) pipeline.Options {
	return pipeline.Options{
		Season:        flags.season,
		ShotZones:     flags.shotZones,
		PlayerDetails: flags.playerDetails,
	}
}

func logReport(logger *slog.Logger, report *pipeline.Report) {
	for entity, tally := range report.Entities {
		logger.Info("entity summary",
			slog.String(logging.FieldEntity, entity),
			slog.Int("written", tally.Written),
			slog.Int("skipped_exists", tally.SkippedExists),
			slog.Int("failed", tally.Failed))
	}
	logger.Info("run summary",
		slog.String(logging.FieldSeason, report.Season),
		slog.String("date_from", report.DateFrom),
		slog.String("date_to", report.DateTo),
		slog.Int(logging.FieldCount, report.Games),
		slog.Int("written", report.TotalWritten()),
		slog.Int("failed", report.TotalFailed()))
	if len(report.FailedGames) > 0 {
		logger.Warn("games with failed entities", slog.Any("game_ids", report.FailedGames))
	}
}

// finishRun logs the run summary and decides the exit status. Per-game
// entity failures are already counted in the report and surfaced in the
// logs; only dimension, discovery, or standings errors fail the process,
// so a scheduled re-run can pick up the stragglers.
func finishRun(logger *slog.Logger, report *pipeline.Report, err error) error {
	if report != nil {
		logReport(logger, report)
	}
	return err
}
