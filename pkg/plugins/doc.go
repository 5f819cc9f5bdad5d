// Package plugins implements the runtime plugin registry of a host server.
//
// # Overview
//
// The package tracks which optional extension plugins are active, activates
// them in dependency order through an external build tool, deactivates them
// with a recursive dependency cascade, and keeps per-plugin configuration.
//
// Registry: active plugins and their init/teardown hooks
// UnitMap: bidirectional plugin <-> build unit association
// Discoverer: folder walk populating the unit map from plugin.yaml manifests
// Resolver: batch activation of enabled plugins via the build tool
// ConfigStore: opaque per-plugin configuration, independent of activation
// Reloader: fsnotify- and cron-driven rediscovery
//
// # Lifecycle
//
// A discovery pass tears the registry down, resets the unit map, scans the
// configured folders in order (first folder to yield a candidate identifier
// wins), then activates every enabled plugin that was mapped. Activation is
// delegated to the BuildTool, whose unit entry points call back into
// Registry.Register. Unloading a plugin cascades through the build units its
// own unit declares as dependencies.
//
// # Usage Example
//
//	units := plugins.NewUnitMap()
//	enabled := plugins.NewEnabledSet("metrics", "audit")
//	registry := plugins.NewRegistry(enabled, units, tool, log, metrics)
//	resolver := plugins.NewResolver(enabled, units, tool, log)
//	discoverer := plugins.NewDiscoverer(cfg.PluginDirs, registry, units, resolver, log, metrics)
//	if err := discoverer.Discover(ctx); err != nil {
//		log.Fatalf("plugin discovery failed: %v", err)
//	}
//
// The host owns the request objects; request-scoped plugin data lives in
// package reqdata.
package plugins
