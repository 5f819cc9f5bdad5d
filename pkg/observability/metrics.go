package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds all Prometheus metrics exposed by the plugin host.
type Metrics struct {
	// Discovery metrics
	DiscoveryPassesTotal   prometheus.Counter
	DiscoveryFailuresTotal prometheus.Counter
	DiscoveryDuration      prometheus.Histogram
	ManifestSkipsTotal     prometheus.Counter

	// Registry metrics
	PluginsRegisteredTotal prometheus.Counter
	PluginsUnloadedTotal   prometheus.Counter
	ActivePlugins          prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		DiscoveryPassesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wookie_discovery_passes_total",
				Help: "Total number of completed plugin discovery passes",
			},
		),
		DiscoveryFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wookie_discovery_failures_total",
				Help: "Total number of discovery passes aborted by activation failures",
			},
		),
		DiscoveryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wookie_discovery_duration_seconds",
				Help:    "Plugin discovery pass duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ManifestSkipsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wookie_manifest_skips_total",
				Help: "Total number of plugin directories skipped for missing or invalid manifests",
			},
		),
		PluginsRegisteredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wookie_plugins_registered_total",
				Help: "Total number of plugin registrations",
			},
		),
		PluginsUnloadedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wookie_plugins_unloaded_total",
				Help: "Total number of plugin unloads",
			},
		),
		ActivePlugins: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wookie_active_plugins",
				Help: "Number of currently active plugins",
			},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.DiscoveryPassesTotal,
			m.DiscoveryFailuresTotal,
			m.DiscoveryDuration,
			m.ManifestSkipsTotal,
			m.PluginsRegisteredTotal,
			m.PluginsUnloadedTotal,
			m.ActivePlugins,
		)
	}

	return m
}
