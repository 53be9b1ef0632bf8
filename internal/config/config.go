// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// DefaultDecayRate is assigned to skills created without a rate.
	DefaultDecayRate float64 `koanf:"default_decay_rate"`

	// HistoryDays is the default window for GET /skills/{id}/history.
	HistoryDays int `koanf:"history_days"`

	// DecayAlertThreshold is the freshness score below which decay alerts
	// fire.
	DecayAlertThreshold float64 `koanf:"decay_alert_threshold"`

	// SweepIntervalMinutes sets how often the background alert sweep runs.
	SweepIntervalMinutes int `koanf:"sweep_interval_minutes"`

	// AlertsEnabled toggles the background alert sweep.
	AlertsEnabled bool `koanf:"alerts_enabled"`

	// SMTP relay settings. Alerts fall back to an in-memory recorder when
	// SMTPHost is empty.
	SMTPHost     string `koanf:"smtp_host"`
	SMTPPort     int    `koanf:"smtp_port"`
	SMTPUsername string `koanf:"smtp_username"`
	SMTPPassword string `koanf:"smtp_password"`
	SMTPFrom     string `koanf:"smtp_from"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		EventQueueSize:       100_000,
		WorkerCount:          runtime.NumCPU() * 4,
		DedupeSize:           50_000,
		DefaultDecayRate:     0.02,
		HistoryDays:          30,
		DecayAlertThreshold:  40,
		SweepIntervalMinutes: 60,
		AlertsEnabled:        true,
		SMTPPort:             587,
		SMTPFrom:             "alerts@skillfade.local",
	}
}
