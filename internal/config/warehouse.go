package config

// WarehouseConfig holds the optional relational sink connection string.
type WarehouseConfig struct {
	DSN string
}

func loadWarehouse() WarehouseConfig {
	return WarehouseConfig{
		DSN: envOrDefault(envWarehouseDSN, ""),
	}
}
