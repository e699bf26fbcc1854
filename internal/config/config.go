package config

// Config holds runtime configuration for the ingestion pipeline.
type Config struct {
	Lake      LakeConfig
	Stats     StatsConfig
	Warehouse WarehouseConfig
	Metrics   MetricsConfig
	Daemon    DaemonConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Lake:      loadLake(),
		Stats:     loadStats(),
		Warehouse: loadWarehouse(),
		Metrics:   loadMetrics(),
		Daemon:    loadDaemon(),
	}
}
