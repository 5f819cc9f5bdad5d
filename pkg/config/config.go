package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config holds the plugin host configuration.
type Config struct {
	// PluginDirs is the ordered list of folders scanned for plugins.
	// Earlier folders win when the same candidate identifier appears in
	// more than one.
	PluginDirs []string

	// EnabledPlugins names the discovered plugins allowed to activate.
	EnabledPlugins []string

	// WatchPlugins enables filesystem-triggered rediscovery.
	WatchPlugins bool

	// ReloadSchedule is an optional cron spec (e.g. "@every 10m") for
	// periodic rediscovery. Empty disables it.
	ReloadSchedule string

	// LogLevel is the logrus level for the host's log sink.
	LogLevel logrus.Level

	// MetricsEnabled controls Prometheus metric registration.
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	level, err := logrus.ParseLevel(getEnv("WOOKIE_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid WOOKIE_LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		PluginDirs:     splitList(getEnv("WOOKIE_PLUGIN_DIRS", ""), string(os.PathListSeparator)),
		EnabledPlugins: splitList(getEnv("WOOKIE_ENABLED_PLUGINS", ""), ","),
		WatchPlugins:   getEnvBool("WOOKIE_WATCH_PLUGINS", false),
		ReloadSchedule: getEnv("WOOKIE_RELOAD_SCHEDULE", ""),
		LogLevel:       level,
		MetricsEnabled: getEnvBool("WOOKIE_METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
			return fmt.Errorf("invalid WOOKIE_RELOAD_SCHEDULE %q: %w", c.ReloadSchedule, err)
		}
	}

	for _, id := range c.EnabledPlugins {
		if id != strings.ToLower(id) {
			return fmt.Errorf("enabled plugin %q must be lowercase: candidate identifiers are case-normalized", id)
		}
	}

	return nil
}

func splitList(value, sep string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
