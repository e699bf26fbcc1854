package config

import "time"

const (
	envS3Bucket      = "S3_BUCKET_NAME"
	envAWSRegion     = "AWS_REGION"
	envS3Endpoint    = "S3_ENDPOINT"
	envStatsBaseURL  = "NBA_STATS_BASE_URL"
	envStatsTimeout  = "NBA_STATS_TIMEOUT"
	envMinInterval   = "NBA_STATS_MIN_INTERVAL"
	envRetryAttempts = "NBA_STATS_RETRY_ATTEMPTS"
	envRetryBase     = "NBA_STATS_RETRY_BASE_DELAY"
	envWarehouseDSN  = "WAREHOUSE_DSN"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminPort     = "ADMIN_PORT"
	envRunInterval   = "INGEST_RUN_INTERVAL"
	envLookbackDays  = "INGEST_LOOKBACK_DAYS"

	defaultAWSRegion    = "us-east-1"
	defaultStatsBaseURL = "https://stats.nba.com/stats"
	defaultStatsTimeout = 30 * time.Second
	// Conservative spacing between upstream calls; the stats API tolerates
	// roughly one call per second before throttling.
	defaultMinInterval   = 1200 * time.Millisecond
	defaultRetryAttempts = 3
	defaultRetryBase     = 2 * time.Second
	defaultMetricsPort   = "9090"
	defaultAdminPort     = "4000"
	// Cadence for daemon-mode incremental runs.
	defaultRunInterval  = 6 * time.Hour
	defaultLookbackDays = 3
)
