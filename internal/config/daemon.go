package config

import "time"

// DaemonConfig controls daemon-mode scheduling and the admin server.
type DaemonConfig struct {
	AdminPort    string
	RunInterval  time.Duration
	LookbackDays int
}

func loadDaemon() DaemonConfig {
	return DaemonConfig{
		AdminPort:    envOrDefault(envAdminPort, defaultAdminPort),
		RunInterval:  durationEnvOrDefault(envRunInterval, defaultRunInterval),
		LookbackDays: intEnvOrDefault(envLookbackDays, defaultLookbackDays),
	}
}
