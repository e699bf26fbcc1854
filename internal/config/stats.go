package config

import "time"

// StatsConfig controls how the NBA stats API is reached and paced.
type StatsConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MinInterval   time.Duration
	RetryAttempts int
	RetryBase     time.Duration
}

func loadStats() StatsConfig {
	return StatsConfig{
		BaseURL:       envOrDefault(envStatsBaseURL, defaultStatsBaseURL),
		Timeout:       durationEnvOrDefault(envStatsTimeout, defaultStatsTimeout),
		MinInterval:   durationEnvOrDefault(envMinInterval, defaultMinInterval),
		RetryAttempts: intEnvOrDefault(envRetryAttempts, defaultRetryAttempts),
		RetryBase:     durationEnvOrDefault(envRetryBase, defaultRetryBase),
	}
}
